package models

type GuideRequest struct {
	Style string `json:"style"`
}

type GuideResponse struct {
	Style string `json:"style"`
	Guide string `json:"guide"`
}

type StyleOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type StylesResponse struct {
	Styles []StyleOption `json:"styles"`
}
