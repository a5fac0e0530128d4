package favorites

type AddAuthorPayload struct {
	Name string `json:"name" mod:"trim" validate:"required,max=1000"`
}

type AddSeriesPayload struct {
	Title string `json:"title" mod:"trim" validate:"required,max=1000"`
}
