package handlers

import (
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/HaBsawy/creiden-task/internal/http/response"
	"github.com/HaBsawy/creiden-task/internal/models"
	"github.com/HaBsawy/creiden-task/internal/validation"
)

const maxBodyBytes = 1 << 20

func readInput(r *http.Request) validation.Input {
	defer r.Body.Close()
	return validation.Decode(io.LimitReader(r.Body, maxBodyBytes))
}

// pathID binds the {id} route variable. Anything that is not a positive
// integer cannot name a row, so it is answered like a missing one.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		response.NotFound(w)
		return 0, false
	}
	return id, true
}

func pageRequest(r *http.Request) models.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return models.PageRequest{Page: page, PerPage: perPage}.Normalize()
}

// withLinks fills the absolute path and neighbour page urls of a listing.
func withLinks[T any](r *http.Request, page models.Page[T]) models.Page[T] {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	page.Path = scheme + "://" + r.Host + r.URL.Path

	link := func(n int) *string {
		q := url.Values{}
		q.Set("page", strconv.Itoa(n))
		if r.URL.Query().Has("per_page") {
			q.Set("per_page", strconv.Itoa(page.PerPage))
		}
		s := page.Path + "?" + q.Encode()
		return &s
	}
	if page.CurrentPage < page.LastPage {
		page.NextPageURL = link(page.CurrentPage + 1)
	}
	if page.CurrentPage > 1 {
		page.PrevPageURL = link(page.CurrentPage - 1)
	}
	return page
}

func createdMsg(entity string) string { return "The " + entity + " created successfully" }
func updatedMsg(entity string) string { return "The " + entity + " updated successfully" }
func deletedMsg(entity string) string { return "The " + entity + " deleted successfully" }
