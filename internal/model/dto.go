package model

// ========== Request DTOs ==========

type SubscribeRequest struct {
	UserID      uint
	DeviceToken string
	Taxonomy    string
	DeviceName  string
	OSVersion   string
}

type UnsubscribeRequest struct {
	UserID      uint
	DeviceToken string
}

type SendUserRequest struct {
	UserID  uint
	Message PushMessage
}

// ========== Response envelope ==========

// APIResponse is the envelope shared by success and error responses:
// {"code": "...", "message": "...", "data": {"status": 200}}
type APIResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Data    ResponseData `json:"data"`
}

type ResponseData struct {
	Status int `json:"status"`
}

// NewAPIResponse builds an envelope with the given status
func NewAPIResponse(code, message string, status int) APIResponse {
	return APIResponse{Code: code, Message: message, Data: ResponseData{Status: status}}
}
