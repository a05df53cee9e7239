package handler

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Supplier names travel into store filters, so the form only admits the
// characters real tarifas use.
var proveedorRe = regexp.MustCompile(`^[A-ZÁÉÍÓÚÜÑ0-9 ._-]+$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("proveedor", validarProveedor)
	}
}

func validarProveedor(fl validator.FieldLevel) bool {
	return proveedorRe.MatchString(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
}

// camposInvalidos flattens binding failures into a field -> message map for
// the validation envelope.
func camposInvalidos(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["body"] = "formulario ilegible"
		return fields
	}
	for _, fe := range verrs {
		campo := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[campo] = "campo obligatorio"
		case "oneof":
			fields[campo] = "valores admitidos: " + fe.Param()
		case "max":
			fields[campo] = "demasiado largo"
		default:
			fields[campo] = "valor invalido"
		}
	}
	return fields
}
