package authors

type ListAuthorsQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"100" validate:"min=1,max=1000"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Alpha  *string `query:"alpha" json:"alpha,omitempty" validate:"omitempty,max=1"`
	Prefix *string `query:"prefix" json:"prefix,omitempty" validate:"omitempty,max=100"`
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}
