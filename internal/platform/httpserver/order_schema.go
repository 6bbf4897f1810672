package httpserver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// The schema checks shape only. Value rules such as positive quantities and
// the phone format are reported by the order workflow with item indexes.
const placeOrderSchema = `{
  "type": "object",
  "properties": {
    "items": {
      "type": "array",
      "maxItems": 100,
      "items": {
        "type": "object",
        "properties": {
          "partId": {"type": ["number", "string"]},
          "quantity": {"type": ["number", "string"]}
        }
      }
    },
    "address": {"type": "string"},
    "phoneNumber": {"type": "string"},
    "idempotencyKey": {"type": ["string", "null"]}
  }
}`

var (
	placeOrderSchemaLoader = gojsonschema.NewStringLoader(placeOrderSchema)
	errMalformedJSON       = errors.New("malformed json")
)

func validatePlaceOrderBody(body []byte) error {
	result, err := gojsonschema.Validate(placeOrderSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", errMalformedJSON, err)
	}
	if result.Valid() {
		return nil
	}
	messages := make([]string, 0, len(result.Errors()))
	for _, item := range result.Errors() {
		messages = append(messages, item.String())
	}
	return errors.New(strings.Join(messages, "; "))
}
