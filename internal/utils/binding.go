package utils

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// BindStrictJSON decodes the request body into obj, rejecting unknown
// fields, then runs the standard binding validators. Update payloads are
// explicit structs with an enumerated set of mutable fields; anything
// outside that set is an error rather than a pass-through.
func BindStrictJSON(c *gin.Context, obj interface{}) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return err
	}
	if binding.Validator == nil {
		return nil
	}
	return binding.Validator.ValidateStruct(obj)
}
