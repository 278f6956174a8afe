package httpx

type CreateSessionRequest struct {
	OrderID string `json:"order_id"`
}

type CreateSessionResponse struct {
	URL string `json:"url"`
}
