// Package http provides request input helpers and JSON envelope responses.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	// Bind JSON / form body into a struct
//	var payload struct {
//	    Name string `json:"name"`
//	}
//	if err := req.Bind(&payload); err != nil { ... }
//
//	// Generic decoding, used by the route validators
//	body, err := req.Decode()   // JSON document, map[string]string for forms, nil when empty
//
//	// Input retrieval
//	name   := req.Input("name", "default")
//	page   := req.Query("page", "1")
//	query  := req.QueryMap()    // map[string]string
//	params := req.RouteParams() // chi URL params
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.Success(data)             // 200 {"data": ...}
//	res.Created(data)             // 201 {"data": ...}
//	res.NoContent()               // 204
//
//	res.Error(409, "taken")       // {"error": {"code": "CONFLICT", "message": "taken"}}
//	res.NotFound()                // 404 {"error": {"code": "NOT_FOUND", "message": "Not found."}}
//	res.ValidationError(errs)     // 400 {"error": {"code": "VALIDATION_ERROR", ..., "errors": {...}}}
package http
