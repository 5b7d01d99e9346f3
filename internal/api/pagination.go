package api

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Page struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
}

func (p Page) Limit() int {
	return p.PageSize
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// BindPage reads page, pageSize and search from the query string and
// applies defaults.
func BindPage(c *gin.Context) (Page, error) {
	var p Page
	if err := c.ShouldBindQuery(&p); err != nil {
		return Page{}, err
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	p.Search = strings.TrimSpace(p.Search)
	return p, nil
}
