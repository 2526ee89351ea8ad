package handlers

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined errors
	OKResponse          = Response{}
	AccessDenied        = Response{"access denied"}
	NotFoundResponse    = Response{"not found"}
	DBError1Response    = Response{"DB Error 1"}
	DBError2Response    = Response{"DB Error 2"}
	ServerErrorResponse = Response{"something went wrong"}
)
