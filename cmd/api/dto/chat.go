package dto

import (
	"peleman-chatbot/catalog"
	"peleman-chatbot/models"
	"peleman-chatbot/synchronizer"
)

type SurfaceRequestDTO struct {
	Surface string `json:"surface" binding:"required" example:"widget"`
}

// UnloadRequestDTO 의 surface 는 비어 있어도 된다.
type UnloadRequestDTO struct {
	Surface string `json:"surface" example:"widget"`
}

type SendMessageRequestDTO struct {
	Text string `json:"text" example:"Fotoboek voor een bruiloft?"`
}

type SetOpenRequestDTO struct {
	Open bool `json:"open"`
}

type CategoryCardDTO struct {
	ID           string `json:"id" example:"photobook_hardcover"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail,omitempty"`
	URL          string `json:"url"`
}

type ProductCardDTO struct {
	ID          string `json:"id" example:"p1"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image,omitempty"`
	Price       string `json:"price,omitempty"`
	URL         string `json:"url,omitempty"`
}

type ChatMessageDTO struct {
	ID                    string            `json:"id"`
	Sender                string            `json:"sender" example:"assistant"`
	Text                  string            `json:"text"`
	RecommendedCategories []CategoryCardDTO `json:"recommendedCategories,omitempty"`
	RecommendedProducts   []ProductCardDTO  `json:"recommendedProducts,omitempty"`
}

// SnapshotDTO 는 한 세션의 화면 상태다. isLoading 은 응답을 기다리는 메시지가 있을 때 true 다.
type SnapshotDTO struct {
	Version   uint64           `json:"version"`
	IsOpen    bool             `json:"isOpen"`
	IsLoading bool             `json:"isLoading"`
	StartedAt int64            `json:"startedAt" example:"1718000000000"`
	Messages  []ChatMessageDTO `json:"messages"`
	Surfaces  []string         `json:"surfaces"`
}

type SendMessageResponseDTO struct {
	Reply    ChatMessageDTO `json:"reply"`
	Gated    bool           `json:"gated"`
	Snapshot SnapshotDTO    `json:"snapshot"`
}

type NavigationResponseDTO struct {
	NavigateTo string      `json:"navigate_to" example:"https://shop.example/urun-kategorisi/photobook-hardcover"`
	DelayMs    int64       `json:"delay_ms" example:"1000"`
	Snapshot   SnapshotDTO `json:"snapshot"`
}

type CatalogStatusDTO struct {
	Language   string `json:"language" example:"en"`
	State      string `json:"state" example:"ready"`
	Source     string `json:"source,omitempty" example:"host"`
	HostMode   bool   `json:"host_mode"`
	Categories int    `json:"categories"`
	Products   int    `json:"products"`
	Error      string `json:"error,omitempty"`
}

func NewSnapshotDTO(s synchronizer.Snapshot) SnapshotDTO {
	out := SnapshotDTO{
		Version:   s.Version,
		IsOpen:    s.WidgetOpen,
		IsLoading: s.Loading(),
		StartedAt: s.StartedAt.UnixMilli(),
		Messages:  make([]ChatMessageDTO, 0, len(s.Messages)),
		Surfaces:  make([]string, 0, len(s.Surfaces)),
	}
	for _, m := range s.Messages {
		out.Messages = append(out.Messages, NewChatMessageDTO(m))
	}
	for _, sf := range s.Surfaces {
		out.Surfaces = append(out.Surfaces, string(sf))
	}
	return out
}

// NewChatMessageDTO 는 카드 설명의 HTML 을 평문으로 바꾼다.
func NewChatMessageDTO(m models.ChatMessage) ChatMessageDTO {
	out := ChatMessageDTO{ID: m.ID, Sender: string(m.Sender), Text: m.Text}
	for _, c := range m.RecommendedCategories {
		out.RecommendedCategories = append(out.RecommendedCategories, CategoryCardDTO{
			ID:           c.ID,
			Name:         c.Name,
			Description:  catalog.FormatText(c.Description),
			ThumbnailURL: c.ThumbnailURL,
			URL:          c.NavigationURL,
		})
	}
	for _, p := range m.RecommendedProducts {
		out.RecommendedProducts = append(out.RecommendedProducts, ProductCardDTO{
			ID:          p.ID,
			Name:        p.Name,
			Description: catalog.FormatText(p.Description),
			ImageURL:    p.ImageURL,
			Price:       p.Price,
			URL:         p.DetailURL,
		})
	}
	return out
}
