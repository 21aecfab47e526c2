package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const (
	maxBodyBytes       = 32 << 20
	contentTypeMsgpack = "application/msgpack"
)

type envelope map[string]any

var (
	validate = validator.New()
	trans    ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	// report the json field name instead of the Go one
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// readJSON decodes the request body into dst and validates it.
func (api *analysisAPI) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case errors.As(err, &maxBytesErr):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesErr.Limit)
		default:
			return err
		}
	}

	if err := validate.Struct(dst); err != nil {
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		return fmt.Errorf("validation error: %v", vvString)
	}
	return nil
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

// writeResponse encodes data as msgpack when the client accepts it, JSON otherwise.
func (api *analysisAPI) writeResponse(w http.ResponseWriter, r *http.Request, status int, data envelope,
	headers http.Header) error {
	if acceptsMsgpack(r) {
		return api.writeMsgpack(w, status, data, headers)
	}
	return api.writeJSON(w, status, data, headers)
}

// writeJSON marshals data structure to encoded JSON response.
func (api *analysisAPI) writeJSON(w http.ResponseWriter, status int, data envelope,
	headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	js = append(js, '\n')
	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(js); err != nil {
		api.log.Error("failed to write JSON response", zap.Error(err))
		return err
	}

	return nil
}

func (api *analysisAPI) writeMsgpack(w http.ResponseWriter, status int, data envelope,
	headers http.Header) error {
	b, err := msgpack.Marshal(data)
	if err != nil {
		return err
	}

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", contentTypeMsgpack)
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		api.log.Error("failed to write msgpack response", zap.Error(err))
		return err
	}

	return nil
}

func acceptsMsgpack(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && (mediaType == contentTypeMsgpack || mediaType == "application/x-msgpack") {
			return true
		}
	}
	return false
}
