package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/hifcm/internal/middleware"
	"github.com/quocanhngo/hifcm/internal/model"
	"github.com/quocanhngo/hifcm/internal/router"
	"github.com/quocanhngo/hifcm/internal/service"
)

// Route names used as filter keys
const (
	RouteSubscribe     = "endpoints/subscribe"
	RouteUnsubscribe   = "endpoints/unsubscribe"
	RouteSendUser      = "endpoints/send/user"
	RouteNotifications = "endpoints/notifications"
)

// TermLister supplies the allowed subscription taxonomies
type TermLister interface {
	Terms(ctx context.Context) ([]string, error)
}

// FCMHandler handles the push subscription endpoints
type FCMHandler struct {
	svc         *service.SubscriptionService
	terms       TermLister
	requireAuth gin.HandlerFunc
}

func NewFCMHandler(svc *service.SubscriptionService, terms TermLister, requireAuth gin.HandlerFunc) *FCMHandler {
	return &FCMHandler{svc: svc, terms: terms, requireAuth: requireAuth}
}

// Routes returns the default definition of every endpoint keyed by route name
func (h *FCMHandler) Routes() map[string]router.Route {
	userID := router.Arg{Required: true, Type: router.TypeInteger}

	return map[string]router.Route{
		RouteSubscribe: {
			Methods: []string{http.MethodPost},
			Path:    "/fcm/subscribe/",
			Handler: h.Subscribe,
			Args: map[string]router.Arg{
				"user_id":      userID,
				"device_token": {Required: true, NonEmpty: true, Type: router.TypeString},
				"taxonomy":     {Required: true, Type: router.TypeString, Enum: h.terms.Terms},
				"device_name":  {Type: router.TypeString},
				"os_version":   {Type: router.TypeString},
			},
		},
		RouteUnsubscribe: {
			Methods: []string{http.MethodPost, http.MethodDelete},
			Path:    "/fcm/unsubscribe",
			Handler: h.Unsubscribe,
			Args: map[string]router.Arg{
				"user_id":      userID,
				"device_token": {Type: router.TypeString},
			},
		},
		RouteSendUser: {
			Methods: []string{http.MethodPost},
			Path:    "/fcm/send/user",
			Handler: h.SendToUser,
			Args: map[string]router.Arg{
				"user_id": userID,
				"message": {Required: true},
				"title":   {Required: true},
			},
		},
		RouteNotifications: {
			Methods:    []string{http.MethodGet},
			Path:       "/fcm/notifications",
			Handler:    h.Notifications,
			Permission: h.requireAuth,
		},
	}
}

// RegisterRoutes mounts every endpoint on r. Embedders customise a route by
// supplying a router.Filters entry under its Route* name; nil keeps the defaults.
func (h *FCMHandler) RegisterRoutes(r gin.IRoutes, filters router.Filters) {
	routes := h.Routes()
	for _, name := range []string{RouteSubscribe, RouteUnsubscribe, RouteSendUser, RouteNotifications} {
		router.Register(r, name, routes[name], filters)
	}
}

// Subscribe godoc
// @Summary Register a device token
// @Tags FCM
// @Accept json
// @Produce json
// @Param user_id body int true "User ID"
// @Param device_token body string true "FCM device token"
// @Param taxonomy body string true "Subscription term"
// @Success 200 {object} model.APIResponse
// @Failure 400 {object} model.APIResponse
// @Router /fcm/subscribe/ [post]
func (h *FCMHandler) Subscribe(c *gin.Context) {
	p := router.ParamsFrom(c)
	req := model.SubscribeRequest{
		UserID:      absID(p.Int("user_id")),
		DeviceToken: p.String("device_token"),
		Taxonomy:    p.String("taxonomy"),
		DeviceName:  p.String("device_name"),
		OSVersion:   p.String("os_version"),
	}

	if _, err := h.svc.Subscribe(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewAPIResponse("rest_hi_fcm_insert_token", "Token has been stored successfully.", http.StatusOK))
}

// Unsubscribe godoc
// @Summary Delete a device, or every device of a user
// @Description With user_id 0 the device owning device_token is deleted, otherwise all devices of the user.
// @Tags FCM
// @Accept json
// @Produce json
// @Param user_id body int true "User ID (0 to delete by token)"
// @Param device_token body string false "FCM device token"
// @Success 200 {object} model.APIResponse
// @Failure 400 {object} model.APIResponse
// @Router /fcm/unsubscribe [post]
// @Router /fcm/unsubscribe [delete]
func (h *FCMHandler) Unsubscribe(c *gin.Context) {
	p := router.ParamsFrom(c)
	req := model.UnsubscribeRequest{
		UserID:      absID(p.Int("user_id")),
		DeviceToken: p.String("device_token"),
	}

	if _, err := h.svc.Unsubscribe(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewAPIResponse("rest_hi_fcm_delete_device", "Device has been deleted successfully", http.StatusOK))
}

// SendToUser godoc
// @Summary Push a message to every device of a user
// @Tags FCM
// @Accept json
// @Produce json
// @Param user_id body int true "User ID"
// @Param message body string true "Message body"
// @Param title body string true "Message title"
// @Success 200 {object} model.APIResponse
// @Failure 400 {object} model.APIResponse
// @Router /fcm/send/user [post]
func (h *FCMHandler) SendToUser(c *gin.Context) {
	p := router.ParamsFrom(c)
	req := model.SendUserRequest{
		UserID: absID(p.Int("user_id")),
		Message: model.PushMessage{
			Message:     p.String("message"),
			Title:       p.String("title"),
			Image:       p.String("image"),
			DialogTitle: p.String("dialog_title"),
			DialogText:  p.String("dialog_text"),
			DialogImage: p.String("dialog_image"),
		},
	}

	if err := h.svc.SendToUser(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewAPIResponse("rest_hi_fcm_send_custom_message", "The notification has been sent successfully", http.StatusOK))
}

// Notifications godoc
// @Summary List the caller's notifications
// @Tags FCM
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Notification
// @Failure 401 {object} model.APIResponse
// @Router /fcm/notifications [get]
func (h *FCMHandler) Notifications(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewAPIResponse("rest_forbidden", "Sorry, you are not allowed to do that.", http.StatusUnauthorized))
		return
	}

	notifications, err := h.svc.Notifications(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func writeError(c *gin.Context, err error) {
	if apiErr, ok := service.AsAPIError(err); ok {
		c.JSON(apiErr.Status, model.NewAPIResponse(apiErr.Code, apiErr.Message, apiErr.Status))
		return
	}

	log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, model.NewAPIResponse("rest_internal_error", "Internal server error", http.StatusInternalServerError))
}

// absID maps a request id to an unsigned id, dropping the sign
func absID(n int64) uint {
	if n < 0 {
		n = -n
	}
	return uint(n)
}
