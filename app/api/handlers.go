package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	"github.com/wgparish/buy-it-for-life-tracker/app/common"
	"github.com/wgparish/buy-it-for-life-tracker/app/common/rest"
	"github.com/wgparish/buy-it-for-life-tracker/app/common/rest/auth"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/affiliate"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/alert"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/item"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/pricing"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/user"
)

const (
	requestsPerSecondLimit = 7

	affiliateClickCookieName   = "bifl_click"
	affiliateClickCookieMaxAge = 30 * 24 * 60 * 60

	statsDateLayout = "2006-01-02"

	recentPriceUpdatesLimit = 10
)

type Handler struct {
	itemService      *item.Service
	userService      *user.Service
	alertService     *alert.Service
	pricingService   *pricing.Service
	affiliateService *affiliate.Service
}

func NewHandler(
	itemService *item.Service,
	userService *user.Service,
	alertService *alert.Service,
	pricingService *pricing.Service,
	affiliateService *affiliate.Service,
) *Handler {
	return &Handler{
		itemService:      itemService,
		userService:      userService,
		alertService:     alertService,
		pricingService:   pricingService,
		affiliateService: affiliateService,
	}
}

func SetUpRoutesAndAccessPolicy(
	router *chi.Mux,
	handler *Handler,
	verifier rest.TokenVerifier,
	frontendURL string,
) {
	router.Get("/", handler.root)
	router.Get("/health", handler.health)

	router.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{frontendURL},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		apiRouter.Use(render.SetContentType(render.ContentTypeJSON))
		apiRouter.Use(rest.IsJSONMiddleware)
		apiRouter.Use(httprate.Limit(
			requestsPerSecondLimit,
			1*time.Second,
			httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				tooManyRequestsError := common.NewTooManyRequestsError("Too many requests; try again later")
				rest.WriteErrorResponse(r.Context(), tooManyRequestsError, w, nil)
			}),
		))

		apiRouter.Route("/user", func(userRouter chi.Router) {
			userRouter.Use(rest.AccessTokenMiddleware(verifier))

			userRouter.Get("/me", handler.getMe)
		})

		apiRouter.Route("/items", func(itemsRouter chi.Router) {
			itemsRouter.Use(rest.AccessTokenMiddleware(verifier))

			itemsRouter.Group(func(readRouter chi.Router) {
				readRouter.Use(rest.RequireScope(auth.ScopeReadItems))

				readRouter.Get("/", handler.getItems)
				readRouter.Get("/on-sale", handler.getItemsOnSale)
				readRouter.Get("/categories/all", handler.getCategories)
				readRouter.Get("/user-items", handler.getUserItems)

				// Registered after the literal paths so that "on-sale" and
				// friends never match as an item id.
				readRouter.Get("/{itemID}", handler.getItem)
			})

			itemsRouter.Group(func(writeRouter chi.Router) {
				writeRouter.Use(rest.RequireScope(auth.ScopeWriteItems))

				writeRouter.Post("/refresh-reddit", handler.refreshFromReddit)
				writeRouter.Post("/check-prices", handler.checkPrices)
			})
		})

		apiRouter.Route("/alerts", func(alertsRouter chi.Router) {
			alertsRouter.Use(rest.AccessTokenMiddleware(verifier))

			alertsRouter.With(rest.RequireScope(auth.ScopeWriteAlerts)).
				Post("/subscribe", handler.subscribe)
			alertsRouter.With(rest.RequireScope(auth.ScopeWriteAlerts)).
				Delete("/unsubscribe/{itemID}", handler.unsubscribe)
			alertsRouter.With(rest.RequireScope(auth.ScopeWriteAlerts)).
				Put("/update/{alertID}", handler.updateAlert)
			alertsRouter.With(rest.RequireScope(auth.ScopeReadAlerts)).
				Get("/my-alerts", handler.getMyAlerts)
			alertsRouter.Get("/check-subscription/{itemID}", handler.checkSubscription)
		})

		apiRouter.Route("/affiliate", func(affiliateRouter chi.Router) {
			affiliateRouter.With(rest.OptionalAccessTokenMiddleware(verifier)).
				Get("/redirect/{itemID}", handler.affiliateRedirect)

			affiliateRouter.Group(func(adminRouter chi.Router) {
				adminRouter.Use(rest.AccessTokenMiddleware(verifier))
				adminRouter.Use(rest.RequireScope(auth.ScopeReadAdmin))

				adminRouter.Get("/stats", handler.getAffiliateStats)
				adminRouter.Get("/popular", handler.getPopularItems)
				adminRouter.Post("/conversion/{trackingID}", handler.recordConversion)
			})
		})
	})
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(welcomeResponse{Message: "BuyItForLife Sale Tracker API"})
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(healthResponse{Status: "ok", Timestamp: time.Now().UTC()})
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := rest.ClaimsFromContext(r.Context())
	if !ok {
		rest.WriteErrorResponse(r.Context(), common.NewUnauthorizedError("Authentication required"), w, nil)
		return
	}

	profile, err := h.userService.SyncProfile(r.Context(), claims)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	response := profileResponse{
		User:          profile,
		Scopes:        claims.Scopes(),
		EmailVerified: claims.EmailVerified,
	}

	body, err := json.Marshal(response)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) getItems(w http.ResponseWriter, r *http.Request) {
	pagination, err := rest.GetPaginationParams(r)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	query := r.URL.Query()

	dto := &item.ListItemsDTO{
		Page:      pagination.Page,
		Limit:     pagination.Limit,
		Search:    query.Get("search"),
		Category:  query.Get("category"),
		SortBy:    query.Get("sort_by"),
		SortOrder: query.Get("sort_order"),
	}

	result, err := h.itemService.ListItems(r.Context(), dto)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	response := itemsListResponse{
		Items:       toItemResponses(result.Items),
		TotalItems:  result.TotalItems,
		TotalPages:  result.TotalPages,
		CurrentPage: result.CurrentPage,
	}

	body, err := json.Marshal(response)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := rest.GetObjectIDFromPath(r, "itemID")
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	model, err := h.itemService.GetItem(r.Context(), itemID)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	priceUpdates, err := h.pricingService.RecentUpdates(r.Context(), itemID, recentPriceUpdatesLimit)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	response := itemDetailResponse{
		itemResponse:       toItemResponse(model),
		RecentPriceUpdates: toPriceUpdateResponses(priceUpdates),
	}

	body, err := json.Marshal(response)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) getItemsOnSale(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.ItemsOnSale(r.Context())
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	body, err := json.Marshal(toItemResponses(items))
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) getUserItems(w http.ResponseWriter, r *http.Request) {
	claims, ok := rest.ClaimsFromContext(r.Context())
	if !ok {
		rest.WriteErrorResponse(r.Context(), common.NewUnauthorizedError("Authentication required"), w, nil)
		return
	}

	items, err := h.itemService.UserItems(r.Context(), claims.UserID())
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	body, err := json.Marshal(toItemResponses(items))
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.itemService.GetCategories(r.Context())
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	body, err := json.Marshal(categoriesResponse{Categories: categories})
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) refreshFromReddit(w http.ResponseWriter, r *http.Request) {
	result, err := h.itemService.RefreshFromReddit(r.Context())
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	response := redditRefreshResponse{
		NewItems:     result.NewItems,
		UpdatedItems: result.UpdatedItems,
	}

	body, err := json.Marshal(response)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) checkPrices(w http.ResponseWriter, r *http.Request) {
	result, err := h.pricingService.CheckAllPrices(r.Context())
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	claims, ok := rest.ClaimsFromContext(r.Context())
	if !ok {
		rest.WriteErrorResponse(r.Context(), common.NewUnauthorizedError("Authentication required"), w, nil)
		return
	}

	var request rest.SubscribeRequest

	if err := rest.BindAndValidate(r, &request); err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	dto := &alert.SubscribeDTO{
		ItemID:               request.ItemID,
		PriceThreshold:       request.PriceThreshold,
		PriceDropPercentage:  request.PriceDropPercentage,
		NotificationChannels: request.NotificationChannels,
	}

	model, err := h.alertService.Subscribe(r.Context(), claims, dto)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	body, err := json.Marshal(toAlertResponse(model))
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusCreated, w)
}

func (h *Handler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	claims, ok := rest.ClaimsFromContext(r.Context())
	if !ok {
		rest.WriteErrorResponse(r.Context(), common.NewUnauthorizedError("Authentication required"), w, nil)
		return
	}

	itemID, err := rest.GetObjectIDFromPath(r, "itemID")
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	if err := h.alertService.Unsubscribe(r.Context(), claims.UserID(), itemID); err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), nil, http.StatusNoContent, w)
}

func (h *Handler) updateAlert(w http.ResponseWriter, r *http.Request) {
	claims, ok := rest.ClaimsFromContext(r.Context())
	if !ok {
		rest.WriteErrorResponse(r.Context(), common.NewUnauthorizedError("Authentication required"), w, nil)
		return
	}

	alertID, err := rest.GetObjectIDFromPath(r, "alertID")
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	var request rest.UpdateAlertRequest

	if err := rest.BindAndValidate(r, &request); err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	dto := &alert.UpdateDTO{
		PriceThreshold:       request.PriceThreshold,
		PriceDropPercentage:  request.PriceDropPercentage,
		IsActive:             request.IsActive,
		NotificationChannels: request.NotificationChannels,
	}

	model, err := h.alertService.UpdateAlert(r.Context(), alertID, claims.UserID(), dto)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	body, err := json.Marshal(toAlertResponse(model))
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) getMyAlerts(w http.ResponseWriter, r *http.Request) {
	claims, ok := rest.ClaimsFromContext(r.Context())
	if !ok {
		rest.WriteErrorResponse(r.Context(), common.NewUnauthorizedError("Authentication required"), w, nil)
		return
	}

	includeItems, err := rest.GetBoolFromURL(r, "include_items")
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	alerts, err := h.alertService.UserAlerts(r.Context(), claims.UserID(), includeItems)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	responses := make([]alertResponse, 0, len(alerts))
	for i := range alerts {
		responses = append(responses, toAlertWithItemResponse(&alerts[i]))
	}

	body, err := json.Marshal(responses)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) checkSubscription(w http.ResponseWriter, r *http.Request) {
	claims, ok := rest.ClaimsFromContext(r.Context())
	if !ok {
		rest.WriteErrorResponse(r.Context(), common.NewUnauthorizedError("Authentication required"), w, nil)
		return
	}

	itemID, err := rest.GetObjectIDFromPath(r, "itemID")
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	model, err := h.alertService.CheckSubscription(r.Context(), claims.UserID(), itemID)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	response := checkSubscriptionResponse{IsSubscribed: model != nil}

	if model != nil {
		alertBody := toAlertResponse(model)
		response.Alert = &alertBody
	}

	body, err := json.Marshal(response)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) affiliateRedirect(w http.ResponseWriter, r *http.Request) {
	itemID, err := rest.GetObjectIDFromPath(r, "itemID")
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	clickContext := affiliate.ClickContext{
		Referrer:  r.Referer(),
		UserAgent: r.UserAgent(),
	}

	if claims, ok := rest.ClaimsFromContext(r.Context()); ok {
		clickContext.UserID = claims.UserID()
	}

	if realIP, err := rest.GetRealIP(r); err == nil {
		clickContext.IPAddress = realIP
	}

	retailer := r.URL.Query().Get("retailer")

	redirectURL, trackingID, err := h.affiliateService.ResolveRedirect(r.Context(), itemID, retailer, clickContext)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	// The cookie lets the conversion postback attribute purchases made
	// within the attribution window.
	http.SetCookie(w, &http.Cookie{
		Name:     affiliateClickCookieName,
		Value:    trackingID,
		Path:     "/",
		MaxAge:   affiliateClickCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, redirectURL, http.StatusFound)
}

func (h *Handler) getAffiliateStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var periodStart, periodEnd *time.Time

	if rawStartDate := query.Get("start_date"); rawStartDate != "" {
		startDate, err := time.Parse(statsDateLayout, rawStartDate)
		if err != nil {
			rest.WriteErrorResponse(r.Context(),
				common.NewClientSideError("start_date must be formatted as YYYY-MM-DD"), w, nil)
			return
		}

		periodStart = &startDate
	}

	if rawEndDate := query.Get("end_date"); rawEndDate != "" {
		endDate, err := time.Parse(statsDateLayout, rawEndDate)
		if err != nil {
			rest.WriteErrorResponse(r.Context(),
				common.NewClientSideError("end_date must be formatted as YYYY-MM-DD"), w, nil)
			return
		}

		periodEnd = &endDate
	}

	stats, err := h.affiliateService.GetStats(r.Context(), periodStart, periodEnd)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	body, err := json.Marshal(stats)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) getPopularItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	days := 0

	if rawDays := query.Get("days"); rawDays != "" {
		parsedDays, err := strconv.Atoi(rawDays)
		if err != nil || parsedDays <= 0 {
			rest.WriteErrorResponse(r.Context(),
				common.NewClientSideError("days must be a positive integer"), w, nil)
			return
		}

		days = parsedDays
	}

	limit := 10

	if rawLimit := query.Get("limit"); rawLimit != "" {
		parsedLimit, err := strconv.Atoi(rawLimit)
		if err != nil || parsedLimit <= 0 || parsedLimit > 100 {
			rest.WriteErrorResponse(r.Context(),
				common.NewClientSideError("limit must be between 1 and 100"), w, nil)
			return
		}

		limit = parsedLimit
	}

	popularItems, err := h.affiliateService.PopularItems(r.Context(), days, limit)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	body, err := json.Marshal(popularItems)
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}

func (h *Handler) recordConversion(w http.ResponseWriter, r *http.Request) {
	trackingID := chi.URLParam(r, "trackingID")
	if trackingID == "" {
		rest.WriteErrorResponse(r.Context(), common.NewClientSideError("tracking id is required"), w, nil)
		return
	}

	var request rest.ConversionRequest

	// The postback body is optional; a bare call still marks the conversion.
	if r.ContentLength > 0 {
		if err := rest.BindAndValidate(r, &request); err != nil {
			rest.WriteErrorResponse(r.Context(), err, w, nil)
			return
		}
	}

	if err := h.affiliateService.RecordConversion(r.Context(), trackingID, request.Revenue); err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	body, err := json.Marshal(statusResponse{Status: "recorded"})
	if err != nil {
		rest.WriteErrorResponse(r.Context(), err, w, nil)
		return
	}

	rest.WriteResponse(r.Context(), body, http.StatusOK, w)
}
