package catalog

import "peleman-chatbot/models"

// Index 는 유효 카탈로그의 ID 조회 인덱스다. ID 가 중복되면 나중 항목이 이긴다.
type Index struct {
	catalog    Catalog
	categories map[string]models.Category
	products   map[string]models.Product
}

func NewIndex(c Catalog) *Index {
	idx := &Index{
		catalog:    c,
		categories: make(map[string]models.Category, len(c.Categories)),
		products:   make(map[string]models.Product, len(c.Products)),
	}
	for _, cat := range c.Categories {
		idx.categories[cat.ID] = cat
	}
	for _, p := range c.Products {
		idx.products[p.ID] = p
	}
	return idx
}

func (i *Index) Catalog() Catalog { return i.catalog }

func (i *Index) Category(id string) (models.Category, bool) {
	c, ok := i.categories[id]
	return c, ok
}

func (i *Index) Product(id string) (models.Product, bool) {
	p, ok := i.products[id]
	return p, ok
}

// ProductsInCategory 는 categoryID 에 속한 상품을 카탈로그 순서로 최대 limit 개 반환한다. limit <= 0 이면 전부 반환한다.
func (i *Index) ProductsInCategory(categoryID string, limit int) []models.Product {
	var out []models.Product
	for _, p := range i.catalog.Products {
		if !p.InCategory(categoryID) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
