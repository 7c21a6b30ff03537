package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsherman999/LegoEater/api/responses"
	"github.com/jsherman999/LegoEater/api/validators"
	"github.com/jsherman999/LegoEater/internal/barcode"
	"github.com/jsherman999/LegoEater/internal/catalog"
	pkgerrors "github.com/jsherman999/LegoEater/pkg/errors"
	"github.com/jsherman999/LegoEater/pkg/logger"
)

// LookupSet resolves a set number through the cache-first catalog resolver.
func LookupSet(catalogs catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setNum := validators.SanitizeString(chi.URLParam(r, "setNum"), 32)
		if setNum == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "set number is required"))
			return
		}

		resolved, err := catalogs.Resolve(r.Context(), setNum)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resolved)
	}
}

// LookupBarcode resolves a scanned barcode to a catalog record.
func LookupBarcode(barcodes barcode.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := validators.SanitizeString(chi.URLParam(r, "code"), 64)
		if code == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required"))
			return
		}

		resolved, err := barcodes.Resolve(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resolved)
	}
}

// SearchSets proxies a free-text search to the catalog provider.
func SearchSets(catalogs catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := validators.SanitizeString(r.URL.Query().Get("q"), 128)

		results, err := catalogs.Search(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"results": results})
	}
}
