package handlers

import (
	"net/http"

	"library-api/utils"
)

func Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteMessage(w, http.StatusOK, "Server is running")
}
