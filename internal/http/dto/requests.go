package dto

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TransferRequest struct {
	ToAddress string `json:"toAddress"`
	Amount    int64  `json:"amount"`
	Memo      string `json:"memo"`
}

type CompleteCourseRequest struct {
	Answers []int `json:"answers"`
}

type EvaluateResumeRequest struct {
	Resume string `json:"resume"`
}

type VerifyRequest struct {
	Certificate string `json:"certificate"`
}
