package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// endpointResult is a response waiting to be written along with a message that only goes to the trace.
type endpointResult struct {
	isErr       bool
	status      int
	internalMsg string
	resp        interface{}
}

func jsonOK(respObj interface{}, internalMsg string, v ...interface{}) endpointResult {
	return jsonResponse(http.StatusOK, respObj, internalMsg, v...)
}

func jsonBadRequest(userMsg string, internalMsg string, v ...interface{}) endpointResult {
	return jsonErr(http.StatusBadRequest, userMsg, internalMsg, v...)
}

func jsonNotFound() endpointResult {
	return jsonErr(http.StatusNotFound, "The requested resource was not found", "not found")
}

func jsonMethodNotAllowed(req *http.Request) endpointResult {
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return jsonErr(http.StatusMethodNotAllowed, userMsg, "method not allowed")
}

func jsonInternalServerError(internalMsg string, v ...interface{}) endpointResult {
	return jsonErr(http.StatusInternalServerError, "An internal server error occurred", internalMsg, v...)
}

func jsonResponse(status int, respObj interface{}, internalMsg string, v ...interface{}) endpointResult {
	return endpointResult{
		status:      status,
		internalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        respObj,
	}
}

func jsonErr(status int, userMsg, internalMsg string, v ...interface{}) endpointResult {
	return endpointResult{
		isErr:       true,
		status:      status,
		internalMsg: fmt.Sprintf(internalMsg, v...),
		resp: ErrorResponse{
			Error:  userMsg,
			Status: status,
		},
	}
}

func (r endpointResult) writeResponse(w http.ResponseWriter, req *http.Request) {
	respJSON, err := json.Marshal(r.resp)
	if err != nil {
		logResponse(req, true, http.StatusInternalServerError, "could not marshal JSON response: "+err.Error())
		http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
		return
	}

	logResponse(req, r.isErr, r.status, r.internalMsg)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(r.status)
	w.Write(respJSON)
}

func logResponse(req *http.Request, isErr bool, status int, msg string) {
	id := RequestID(req.Context())
	if isErr {
		tracer().Errorf("%v %v %v: HTTP-%d %v", id, req.Method, req.URL.Path, status, msg)
		return
	}
	tracer().Infof("%v %v %v: HTTP-%d %v", id, req.Method, req.URL.Path, status, msg)
}
