package genres

type ListGenresQuery struct {
	Category *string `query:"category" json:"category,omitempty" validate:"omitempty,max=128"`
}
