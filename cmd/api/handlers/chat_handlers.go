package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peleman-chatbot/cmd/api/dto"
	"peleman-chatbot/cmd/api/middleware"
	"peleman-chatbot/cmd/api/services"
	"peleman-chatbot/internal/logger"
)

func abortWithChatError(c *gin.Context, chatErr *services.ChatError) {
	if chatErr.Cause != nil {
		_ = c.Error(chatErr.Cause)
	}
	c.AbortWithStatusJSON(chatErr.StatusCode, dto.ErrorResponseDTO{Error: chatErr.ErrorCode})
}

// MountHandler godoc
// @Summary      surface 마운트
// @Description  위젯 또는 모달이 세션을 보기 시작한다. 세션 쿠키가 없으면 새로 발급한다.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        X-Host-Token  header    string                 false  "호스트 서명 사용자 토큰"
// @Param        lang          query     string                 false  "언어 코드"
// @Param        body          body      dto.SurfaceRequestDTO  true   "surface"
// @Success      200           {object}  dto.SnapshotDTO
// @Failure      400           {object}  dto.ErrorResponseDTO
// @Failure      401           {object}  dto.ErrorResponseDTO
// @Router       /chat/mount [post]
func MountHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SurfaceRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
			return
		}
		snap, chatErr := svc.Mount(c.Request.Context(), middleware.SessionID(c), req.Surface, middleware.CurrentViewer(c))
		if chatErr != nil {
			abortWithChatError(c, chatErr)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// UnmountHandler godoc
// @Summary      surface 마운트 해제
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SurfaceRequestDTO  true  "surface"
// @Success      200   {object}  dto.MessageResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Router       /chat/unmount [post]
func UnmountHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SurfaceRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
			return
		}
		if chatErr := svc.Unmount(c.Request.Context(), middleware.SessionID(c), req.Surface); chatErr != nil {
			abortWithChatError(c, chatErr)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "ok"})
	}
}

// UnloadHandler godoc
// @Summary      페이지 이탈
// @Description  pagehide 비콘. 현재 세션 상태를 원래 시작 시각 그대로 저장한다. surface 를 주면 그 마운트도 해제한다.
// @Tags         chat
// @Accept       json
// @Param        surface  query     string                false  "widget | modal"
// @Param        body     body      dto.UnloadRequestDTO  false  "surface"
// @Success      204
// @Failure      400      {object}  dto.ErrorResponseDTO
// @Router       /chat/unload [post]
func UnloadHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := dto.UnloadRequestDTO{Surface: c.Query("surface")}
		if req.Surface == "" && c.Request.ContentLength > 0 {
			// sendBeacon 은 text/plain 으로 보내므로 Content-Type 과 무관하게 JSON 으로 읽는다
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
				return
			}
		}
		if chatErr := svc.Unload(c.Request.Context(), middleware.SessionID(c), req.Surface); chatErr != nil {
			abortWithChatError(c, chatErr)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GetSessionHandler godoc
// @Summary      현재 세션 스냅샷
// @Tags         chat
// @Produce      json
// @Param        X-Host-Token  header    string  false  "호스트 서명 사용자 토큰"
// @Param        lang          query     string  false  "언어 코드"
// @Success      200           {object}  dto.SnapshotDTO
// @Failure      401           {object}  dto.ErrorResponseDTO
// @Router       /chat/session [get]
func GetSessionHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Session(c.Request.Context(), middleware.SessionID(c), middleware.CurrentViewer(c)))
	}
}

// SendMessageHandler godoc
// @Summary      메시지 전송
// @Description  사용자 메시지를 추가하고 모델 응답을 기다린다. 호스트 카탈로그가 준비되지 않았으면 안내 메시지만 추가한다(gated).
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        X-Host-Token  header    string                     false  "호스트 서명 사용자 토큰"
// @Param        lang          query     string                     false  "언어 코드"
// @Param        body          body      dto.SendMessageRequestDTO  true   "message"
// @Success      200           {object}  dto.SendMessageResponseDTO
// @Failure      400           {object}  dto.ErrorResponseDTO
// @Failure      401           {object}  dto.ErrorResponseDTO
// @Router       /chat/messages [post]
func SendMessageHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SendMessageRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
			return
		}
		resp, chatErr := svc.Send(c.Request.Context(), middleware.SessionID(c), middleware.CurrentViewer(c), req.Text)
		if chatErr != nil {
			abortWithChatError(c, chatErr)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// SetOpenHandler godoc
// @Summary      위젯 열림 상태 변경
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SetOpenRequestDTO  true  "open"
// @Success      200   {object}  dto.SnapshotDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Router       /chat/open [post]
func SetOpenHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SetOpenRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
			return
		}
		c.JSON(http.StatusOK, svc.SetOpen(c.Request.Context(), middleware.SessionID(c), middleware.CurrentViewer(c), req.Open))
	}
}

// ClearHandler godoc
// @Summary      대화 기록 초기화
// @Description  대화 로그를 새 인사 메시지 하나로 바꾸고 세션 만료 시계를 다시 시작한다.
// @Tags         chat
// @Produce      json
// @Success      200  {object}  dto.SnapshotDTO
// @Router       /chat/clear [post]
func ClearHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := middleware.SessionID(c)
		snap := svc.Clear(c.Request.Context(), sid, middleware.CurrentViewer(c))
		logger.InfoWithFields("chat session cleared", logger.Fields{"sid": sid})
		c.JSON(http.StatusOK, snap)
	}
}

// CategoryClickHandler godoc
// @Summary      카테고리 카드 클릭
// @Description  안내 메시지를 추가하고 이동할 URL 과 지연 시간을 반환한다.
// @Tags         chat
// @Produce      json
// @Param        id   path      string  true  "category id"
// @Success      200  {object}  dto.NavigationResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      503  {object}  dto.ErrorResponseDTO
// @Router       /chat/categories/{id}/click [post]
func CategoryClickHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, chatErr := svc.ClickCategory(c.Request.Context(), middleware.SessionID(c), middleware.CurrentViewer(c), c.Param("id"))
		if chatErr != nil {
			abortWithChatError(c, chatErr)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ProductClickHandler godoc
// @Summary      상품 카드 클릭
// @Description  안내 메시지를 추가하고 이동할 URL 과 지연 시간을 반환한다. 상품 URL 이 없으면 <site_url>/product/<id> 다.
// @Tags         chat
// @Produce      json
// @Param        id   path      string  true  "product id"
// @Success      200  {object}  dto.NavigationResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      503  {object}  dto.ErrorResponseDTO
// @Router       /chat/products/{id}/click [post]
func ProductClickHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, chatErr := svc.ClickProduct(c.Request.Context(), middleware.SessionID(c), middleware.CurrentViewer(c), c.Param("id"))
		if chatErr != nil {
			abortWithChatError(c, chatErr)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// CatalogStatusHandler godoc
// @Summary      카탈로그 상태
// @Description  현재 언어의 유효 카탈로그 상태(loading/ready/failed)와 출처를 반환한다.
// @Tags         catalog
// @Produce      json
// @Param        lang  query     string  false  "언어 코드"
// @Success      200   {object}  dto.CatalogStatusDTO
// @Router       /catalog [get]
func CatalogStatusHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.CatalogStatus(middleware.CurrentViewer(c).Language))
	}
}
