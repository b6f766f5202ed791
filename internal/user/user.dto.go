package user

type UpdateProfileRequest struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type UpdateGoalsRequest struct {
	CalorieGoal  *float64 `json:"calorie_goal"`
	StepGoal     *float64 `json:"step_goal"`
	DistanceGoal *float64 `json:"distance_goal"`
}

type RegisterDeviceRequest struct {
	Token string `json:"token"`
}
