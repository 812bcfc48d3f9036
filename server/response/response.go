package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes the envelope every endpoint uses: a status word, an optional
// message, and the payload fields merged in at the top level.
func JSON(c *gin.Context, message string, status int, data gin.H, err error) {
	body := gin.H{
		"status": statusWord(status),
	}
	if message != "" {
		body["message"] = message
	}
	if err != nil {
		body["error"] = err.Error()
	}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

func statusWord(status int) string {
	switch {
	case status == http.StatusMultiStatus:
		return "partial_success"
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return "success"
	default:
		return "error"
	}
}
