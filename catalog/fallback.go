package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"peleman-chatbot/models"
)

// Builtin 은 호스트 연동 없이 실행할 때 쓰는 기본 데모 카탈로그다.
func Builtin() Catalog {
	return Catalog{
		Categories: []models.Category{
			{
				ID:            "photobook_hardcover",
				Name:          "Hardcover Photobook",
				Description:   "Premium sert kapaklı, profesyonel fotoğraf albümleri.",
				ThumbnailURL:  "https://picsum.photos/id/24/300/200",
				NavigationURL: "/urun-kategorisi/photobook-hardcover",
			},
			{
				ID:            "photobook_softcover",
				Name:          "Softcover Photobook",
				Description:   "Esnek kapaklı, hafif ve modern fotoğraf kitapları.",
				ThumbnailURL:  "https://picsum.photos/id/20/300/200",
				NavigationURL: "/urun-kategorisi/photobook-softcover",
			},
			{
				ID:            "v_paper",
				Name:          "V-Paper",
				Description:   "Tamamen düz açılan özel patentli kağıt teknolojisi.",
				ThumbnailURL:  "https://picsum.photos/id/180/300/200",
				NavigationURL: "/urun-kategorisi/v-paper",
			},
			{
				ID:            "binding_machines",
				Name:          "Ciltleme Makineleri",
				Description:   "Ofis ve profesyonel kullanım için termal ciltleme sistemleri.",
				ThumbnailURL:  "https://picsum.photos/id/3/300/200",
				NavigationURL: "/urun-kategorisi/binding-machines",
			},
		},
		Products: []models.Product{
			{ID: "p1", CategoryID: "photobook_hardcover", Name: "Peleman Classic Hardcover A4", Description: "Lüks deri dokulu kaplama, A4 dikey format.", Price: "₺450", ImageURL: "https://picsum.photos/id/24/600/400"},
			{ID: "p2", CategoryID: "photobook_hardcover", Name: "Peleman Premium Square", Description: "30x30cm kare format, kişiselleştirilebilir pencere.", Price: "₺600", ImageURL: "https://picsum.photos/id/42/600/400"},
			{ID: "p3", CategoryID: "photobook_softcover", Name: "FlexiBook A5", Description: "Günlük anılar için ideal, yumuşak kapak.", Price: "₺250", ImageURL: "https://picsum.photos/id/20/600/400"},
			{ID: "p4", CategoryID: "v_paper", Name: "V-Paper A4 Glossy", Description: "120gr parlak yüzey, 500 adet paket.", Price: "₺800", ImageURL: "https://picsum.photos/id/180/600/400"},
			{ID: "p5", CategoryID: "binding_machines", Name: "Thermal Binder 8.2", Description: "Aynı anda birden fazla dokümanı ciltleme kapasitesi.", Price: "₺4500", ImageURL: "https://picsum.photos/id/3/600/400"},
		},
	}
}

// LoadFallback 는 path 의 yaml 카탈로그를 읽는다. path 가 비어 있으면 Builtin 을 반환한다.
func LoadFallback(path string) (Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read fallback catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse fallback catalog: %w", err)
	}
	if c.IsEmpty() {
		return Catalog{}, fmt.Errorf("fallback catalog %s is empty", path)
	}
	return c, nil
}
