package file

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// Controller serves stored uploads. Directory listings are never served.
type Controller struct {
	dir string
}

func NewController(dir string) *Controller {
	return &Controller{dir}
}

func (cf Controller) File(c *gin.Context) {
	name := path.Clean("/" + c.Param("filepath"))
	name = strings.TrimPrefix(name, "/")

	if name == "" || strings.Contains(name, "/") {
		notFound(c)
		return
	}

	full := filepath.Join(cf.dir, name)

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		notFound(c)
		return
	}

	c.File(full)
}

func notFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, map[string]any{
		"message": "file not found",
		"status":  false,
	})
}
