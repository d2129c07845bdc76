package models

// Category 는 호스트 카탈로그의 상품 카테고리다. 가져온 뒤에는 변경하지 않는다.
type Category struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description" yaml:"description"`
	ThumbnailURL  string `json:"thumbnail,omitempty" yaml:"thumbnail"`
	NavigationURL string `json:"url" yaml:"url"`
}

// ProductAttribute 는 상품 옵션 하나(예: 크기, 커버 종류)와 선택지 목록이다.
type ProductAttribute struct {
	Name    string   `json:"name" yaml:"name"`
	Options []string `json:"options" yaml:"options"`
}

// Product 는 호스트 카탈로그의 상품이다.
type Product struct {
	ID                    string             `json:"id" yaml:"id"`
	Name                  string             `json:"name" yaml:"name"`
	CategoryID            string             `json:"category" yaml:"category"`
	AdditionalCategoryIDs []string           `json:"categoryIds,omitempty" yaml:"category_ids"`
	Description           string             `json:"description" yaml:"description"`
	ImageURL              string             `json:"image,omitempty" yaml:"image"`
	Price                 string             `json:"price" yaml:"price"`
	DetailURL             string             `json:"url,omitempty" yaml:"url"`
	Attributes            []ProductAttribute `json:"attributes,omitempty" yaml:"attributes"`
}

// InCategory 는 상품이 주 카테고리 또는 추가 카테고리로 categoryID 에 속하는지 반환한다.
func (p Product) InCategory(categoryID string) bool {
	if p.CategoryID == categoryID {
		return true
	}
	for _, id := range p.AdditionalCategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}
