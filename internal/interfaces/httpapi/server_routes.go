package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuctionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/auction", handler.GetAuction)
	mux.HandleFunc("POST /v1/auction/start", handler.StartAuction)
	mux.HandleFunc("POST /v1/auction/bids", handler.PlaceBid)
	mux.HandleFunc("POST /v1/auction/finalize", handler.FinalizeAuction)
	mux.HandleFunc("POST /v1/auction/cancel", handler.CancelAuction)
	mux.HandleFunc("GET /v1/auction/validate", handler.ValidateBid)
}

func registerBoardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{name}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/affordable", handler.ListAffordableTeams)
	mux.HandleFunc("GET /v1/league", handler.GetLeague)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("PUT /v1/teams/{name}", handler.RenameTeam)
	mux.HandleFunc("PATCH /v1/league", handler.UpdateLeague)
	mux.HandleFunc("POST /v1/draft/reset", handler.ResetDraft)
	mux.HandleFunc("POST /v1/draft/export", handler.ExportDraft)
	// Background stats collection; one refresh at a time.
	mux.HandleFunc("POST /v1/pool/refresh", handler.StartPoolRefresh)
	mux.HandleFunc("GET /v1/pool/refresh", handler.GetPoolRefresh)
	mux.HandleFunc("DELETE /v1/pool/refresh", handler.CancelPoolRefresh)
}
