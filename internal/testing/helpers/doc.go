// Package helpers provides HTTP test utilities for TaskFlow handlers.
//
// # Request Building
//
//	rr := helpers.NewRequest(t, http.MethodPost, "/v1/tasks").
//	    WithBody(map[string]string{"text": "Buy milk"}).
//	    Serve(mux)
//
// # Response Assertions
//
//	helpers.AssertStatus(t, rr, http.StatusCreated)
//	helpers.AssertProblemDetails(t, rr, http.StatusConflict, model.ErrCodeNotInitialized)
//	helpers.AssertValidationError(t, rr, "text")
//	helpers.DecodeData(t, rr, &view)
package helpers
