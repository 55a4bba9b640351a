package auth

import (
	"gallery/handlers"
	"gallery/models"

	"github.com/gin-gonic/gin"
)

// HandlerFunc gets the album named by the ":id" path parameter, already checked against the route policy
type HandlerFunc func(c *gin.Context, album *models.Album)

type Policy int

const (
	// PolicyVisible requires a published album. Visitors see nothing else.
	PolicyVisible Policy = iota
	// PolicyUnlocked additionally requires the album password, if the album has one
	PolicyUnlocked
	// PolicyAdmin loads any album, published or not. Only use it behind admin auth.
	PolicyAdmin
)

// Router is a wrapper that adds album loading + password checks
type Router struct {
	Base gin.IRoutes
}

func (r *Router) baseExec(c *gin.Context, handler HandlerFunc, policy Policy) {
	var album models.Album
	var err error
	if policy == PolicyAdmin {
		album, err = models.FindAlbum(c.Param("id"))
	} else {
		album, err = models.FindPublishedAlbum(c.Param("id"))
	}
	if err == nil && policy == PolicyUnlocked {
		err = album.Authorize(SecretFrom(c))
	}
	if err != nil {
		handlers.ErrorResponse(c, err)
		return
	}
	handler(c, &album)
}

func (r *Router) wrap(handler HandlerFunc, policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		r.baseExec(c, handler, policy)
	}
}

func (r *Router) GET(path string, handler HandlerFunc, policy Policy) {
	r.Base.GET(path, r.wrap(handler, policy))
}

func (r *Router) POST(path string, handler HandlerFunc, policy Policy) {
	r.Base.POST(path, r.wrap(handler, policy))
}

func (r *Router) PUT(path string, handler HandlerFunc, policy Policy) {
	r.Base.PUT(path, r.wrap(handler, policy))
}

func (r *Router) DELETE(path string, handler HandlerFunc, policy Policy) {
	r.Base.DELETE(path, r.wrap(handler, policy))
}
