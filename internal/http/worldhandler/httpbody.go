package worldhandler

import "encoding/json"

// Seed stays raw so integral numbers written as 42.0 or 4.2e1 are accepted.
type RegisterWorldBody struct {
	WorldName string          `json:"worldName" example:"Acres"`
	Seed      json.RawMessage `json:"seed"      binding:"required" swaggertype:"integer" example:"42"`
} // @name RegisterWorldRequest

type WorldResponse struct {
	WorldName string `json:"worldName" example:"Acres"`
	Seed      int64  `json:"seed"      example:"42"`
} // @name WorldResponse

type RegisterWorldResponse struct {
	Success   bool   `json:"success"   example:"true"`
	WorldName string `json:"worldName" example:"Acres"`
	Seed      int64  `json:"seed"      example:"42"`
} // @name RegisterWorldResponse

type DeleteWorldResponse struct {
	Success   bool   `json:"success"   example:"true"`
	WorldName string `json:"worldName" example:"Acres"`
} // @name DeleteWorldResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse
