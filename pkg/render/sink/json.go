package sink

import (
	"encoding/json"

	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/render/content"
	"github.com/matzehuels/notediagram/pkg/render/pass"
)

// Export is the serialized form of a presented pass.
type Export struct {
	*pass.Result
	Document *content.Frame `json:"document,omitempty"`
}

// RenderJSON writes the result, including the drawn scene, as indented
// JSON. withDocument adds the composed document arrangement.
func RenderJSON(res *pass.Result, withDocument bool) ([]byte, error) {
	if err := checkResult(res); err != nil {
		return nil, err
	}
	out := Export{Result: res}
	if withDocument {
		f, err := Compose(res)
		if err != nil {
			return nil, err
		}
		out.Document = &f
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode result")
	}
	return data, nil
}
