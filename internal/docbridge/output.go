package docbridge

import (
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kart-io/docbridge/pkg/utils/json"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printDocuments writes one relaxed extended JSON document per line.
func printDocuments(w io.Writer, docs ...bson.M) error {
	for _, doc := range docs {
		data, err := bson.MarshalExtJSON(doc, false, false)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	}
	return nil
}
