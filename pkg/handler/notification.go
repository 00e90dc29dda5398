package handler

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) GetNotifications(c *gin.Context) {
	wrapOkJSON(c, map[string]interface{}{
		"notifications": h.service.Notifications.List(),
	})
}

// RemoveNotification dismisses one notification. Unknown ids are not an error.
func (h *Handler) RemoveNotification(c *gin.Context) {
	id := c.Param("id")
	h.service.Notifications.Remove(id)
	wrapOkJSON(c, map[string]interface{}{
		"removed": id,
	})
}

func (h *Handler) ClearNotifications(c *gin.Context) {
	h.service.Notifications.ClearAll()
	wrapOkJSON(c, map[string]interface{}{
		"notifications": []interface{}{},
	})
}
