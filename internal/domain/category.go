package domain

type Category struct {
	ID     string
	NameAr string
	NameEn *string
	Icon   *string
}
