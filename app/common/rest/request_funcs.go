package rest

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wgparish/buy-it-for-life-tracker/app/common"
)

func BindAndValidate(request *http.Request, target any) error {
	if err := render.DecodeJSON(request.Body, target); err != nil {
		return common.NewClientSideError(err.Error())
	}

	if err := GetValidator().Struct(target); err != nil {
		//nolint:errorlint
		if err, ok := err.(validator.ValidationErrors); ok {
			return GetValidationError(err)
		}

		return err
	}

	return nil
}

func GetObjectIDFromPath(r *http.Request, param string) (string, error) {
	id := chi.URLParam(r, param)

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return "", common.NewValidationError("Validation error", []string{"object id must be correct"})
	}

	return id, nil
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type PaginationParams struct {
	Page  int
	Limit int
}

func GetPaginationParams(r *http.Request) (PaginationParams, error) {
	params := PaginationParams{
		Page:  1,
		Limit: defaultPageLimit,
	}

	if rawPage := r.URL.Query().Get("page"); rawPage != "" {
		page, err := strconv.Atoi(rawPage)
		if err != nil || page < 1 {
			return params, common.NewValidationError("Validation error", []string{"page must be a positive integer"})
		}

		params.Page = page
	}

	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return params, common.NewValidationError(
				"Validation error", []string{"limit must be an integer between 1 and 100"})
		}

		params.Limit = limit
	}

	return params, nil
}

func GetBoolFromURL(r *http.Request, param string) (bool, error) {
	rawValue := r.URL.Query().Get(param)
	if rawValue == "" {
		return false, nil
	}

	value, err := strconv.ParseBool(rawValue)
	if err != nil {
		return false, common.NewValidationError(
			"Validation error", []string{"invalid boolean value provided for '" + param + "'"})
	}

	return value, nil
}

//nolint:nestif
func GetRealIP(r *http.Request) (string, error) {
	var ip string

	if tcip := r.Header.Get("True-Client-IP"); tcip != "" {
		ip = tcip
	} else if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		ip = xrip
	} else if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		i := strings.Index(xff, ", ")
		if i == -1 {
			i = len(xff)
		}
		ip = xff[:i]
	} else {
		var err error
		ip, _, err = net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
	}

	return canonicalizeIP(ip), nil
}

// canonicalizeIP returns a form of ip suitable for comparison to other IPs.
// For IPv4 addresses, this is simply the whole string.
// For IPv6 addresses, this is the /64 prefix.

//nolint:gosimple
func canonicalizeIP(ip string) string {
	isIPv6 := false
	// This is how net.ParseIP decides if an address is IPv6
	// https://cs.opensource.google/go/go/+/refs/tags/go1.17.7:src/net/ip.go;l=704
	for i := 0; !isIPv6 && i < len(ip); i++ {
		switch ip[i] {
		case '.':
			// IPv4
			return ip
		case ':':
			// IPv6
			isIPv6 = true
			break
		}
	}
	if !isIPv6 {
		// Not an IP address at all
		return ip
	}

	ipv6 := net.ParseIP(ip)
	if ipv6 == nil {
		return ip
	}

	return ipv6.Mask(net.CIDRMask(64, 128)).String()
}
