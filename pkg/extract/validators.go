package extract

type ExtractPayload struct {
	IDs       []int64 `json:"ids" validate:"required,min=1,max=1000,dive,min=0"`
	Template  *string `json:"template,omitempty" validate:"omitempty,oneof=filename title-series authordir-title-series"`
	PackToZip *bool   `json:"pack_to_zip,omitempty"`
}
