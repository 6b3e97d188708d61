package portstest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-keeper/internal/domain"
)

type quoteBody struct {
	ID     int64    `json:"id"`
	Text   string   `json:"text"`
	Author *string  `json:"author"`
	Tags   []string `json:"tags"`
}

type draftBody struct {
	Text   string   `json:"text"   binding:"required"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
}

// NewServer starts an HTTP quotes API backed by api. The caller closes it.
func NewServer(api *QuoteAPI) *httptest.Server {
	return httptest.NewServer(Handler(api))
}

// Handler serves the quotes API wire format on top of api. Status errors
// from api are answered with their status and detail; anything else is a 500.
func Handler(api *QuoteAPI) http.Handler {
	r := gin.New()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Quotes API"})
	})

	r.GET("/quotes", func(c *gin.Context) {
		var filter *domain.Filter
		if c.Request.URL.RawQuery != "" {
			filter = &domain.Filter{Author: c.Query("author"), Tag: c.Query("tag")}
		}

		quotes, err := api.ListQuotes(c.Request.Context(), filter)
		if err != nil {
			fail(c, err)
			return
		}

		out := make([]quoteBody, 0, len(quotes))
		for _, q := range quotes {
			out = append(out, toBody(q))
		}

		c.JSON(http.StatusOK, out)
	})

	r.POST("/quotes", func(c *gin.Context) {
		var in draftBody
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{
				{"loc": []string{"body", "text"}, "msg": "field required", "type": "value_error.missing"},
			}})

			return
		}

		q, err := api.CreateQuote(c.Request.Context(), domain.Draft{Text: in.Text, Author: in.Author, Tags: in.Tags})
		if err != nil {
			fail(c, err)
			return
		}

		c.JSON(http.StatusCreated, toBody(q))
	})

	r.GET("/quotes/random", func(c *gin.Context) {
		q, err := api.RandomQuote(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}

		c.JSON(http.StatusOK, toBody(q))
	})

	r.GET("/quotes/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		q, err := api.GetQuote(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}

		c.JSON(http.StatusOK, toBody(q))
	})

	r.DELETE("/quotes/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		deleted, err := api.DeleteQuote(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}

		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Quote not found"})
			return
		}

		c.Status(http.StatusNoContent)
	})

	return r
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{
			{"loc": []string{"path", "id"}, "msg": "value is not a valid integer", "type": "type_error.integer"},
		}})

		return 0, false
	}

	return id, true
}

func fail(c *gin.Context, err error) {
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) && netErr.StatusCode != 0 {
		c.JSON(netErr.StatusCode, gin.H{"detail": netErr.Detail})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
}

func toBody(q *domain.Quote) quoteBody {
	b := quoteBody{ID: q.ID, Text: q.Text, Tags: q.Tags}
	if q.Author != "" {
		b.Author = &q.Author
	}

	if b.Tags == nil {
		b.Tags = []string{}
	}

	return b
}
