package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// fieldError mirrors the validation payload clients already parse:
// {"errors":[{"msg": "...", "param": "..."}]}.
type fieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
}

// fieldRules binds a named request field to its validation rules. Rules are
// evaluated one by one so every failing rule contributes its own message,
// matching the per-validator error list the API has always returned.
type fieldRules struct {
	param string
	value any
	rules []validation.Rule
}

func runValidation(fields []fieldRules) []fieldError {
	var errs []fieldError
	for _, f := range fields {
		for _, rule := range f.rules {
			if err := validation.Validate(f.value, rule); err != nil {
				errs = append(errs, fieldError{Msg: err.Error(), Param: f.param})
			}
		}
	}
	return errs
}

// bindJSON decodes the request body. An absent body is treated as an empty
// form so field validation still reports every missing field.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// validate aborts with the collected field errors when any rule fails.
func validate(c *gin.Context, fields []fieldRules) bool {
	if errs := runValidation(fields); len(errs) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": errs})
		return false
	}
	return true
}

type createAccountRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (r createAccountRequest) fields() []fieldRules {
	return []fieldRules{
		{"name", r.Name, []validation.Rule{
			validation.Required.Error("El nombre no puede ir vacio."),
		}},
		{"password", r.Password, []validation.Rule{
			validation.Required.Error("La contraseña es muy corto, mínimo 8 caracteres."),
			validation.Length(8, 0).Error("La contraseña es muy corto, mínimo 8 caracteres."),
		}},
		{"email", r.Email, []validation.Rule{
			validation.Required.Error("E-mail no válido."),
			is.Email.Error("E-mail no válido."),
		}},
	}
}

type confirmAccountRequest struct {
	Token string `json:"token"`
}

func (r confirmAccountRequest) fields() []fieldRules {
	return []fieldRules{
		{"token", r.Token, []validation.Rule{
			validation.Required.Error("Token no válido"),
			validation.Length(6, 6).Error("Token no válido"),
		}},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) fields() []fieldRules {
	return []fieldRules{
		{"email", r.Email, []validation.Rule{
			validation.Required.Error("E-mail no válido"),
			is.Email.Error("E-mail no válido"),
		}},
		{"password", r.Password, []validation.Rule{
			validation.Required.Error("La contraseña es obligatorio."),
		}},
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r forgotPasswordRequest) fields() []fieldRules {
	return []fieldRules{
		{"email", r.Email, []validation.Rule{
			validation.Required.Error("E-mail no válido"),
			is.Email.Error("E-mail no válido"),
		}},
	}
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (r resetPasswordRequest) fields(token string) []fieldRules {
	return []fieldRules{
		{"token", token, []validation.Rule{
			validation.Required.Error("Token no válido"),
			validation.Length(6, 6).Error("Token no válido"),
		}},
		{"password", r.Password, []validation.Rule{
			validation.Required.Error("La contraseña es muy corto, mínimo 8 caracteres."),
			validation.Length(8, 0).Error("La contraseña es muy corto, mínimo 8 caracteres."),
		}},
	}
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	Password        string `json:"password"`
}

func (r updatePasswordRequest) fields() []fieldRules {
	return []fieldRules{
		{"current_password", r.CurrentPassword, []validation.Rule{
			validation.Required.Error("La contraseña actual no puede estar vacio."),
		}},
		{"password", r.Password, []validation.Rule{
			validation.Required.Error("La contraseña es muy corto, mínimo 8 caracteres."),
			validation.Length(8, 0).Error("La contraseña es muy corto, mínimo 8 caracteres."),
		}},
	}
}

type checkPasswordRequest struct {
	Password string `json:"password"`
}

func (r checkPasswordRequest) fields() []fieldRules {
	return []fieldRules{
		{"password", r.Password, []validation.Rule{
			validation.Required.Error("La contraseña actual no puede estar vacio."),
		}},
	}
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r updateProfileRequest) fields() []fieldRules {
	return []fieldRules{
		{"name", r.Name, []validation.Rule{
			validation.Required.Error("El nombre no puede estar vacío."),
		}},
		{"email", r.Email, []validation.Rule{
			validation.Required.Error("El email no puede estar vacío."),
			is.Email.Error("E-mail no válido"),
		}},
	}
}

type budgetInputRequest struct {
	Name   string   `json:"name"`
	Amount *float64 `json:"amount"`
}

func (r budgetInputRequest) fields() []fieldRules {
	return []fieldRules{
		{"name", r.Name, []validation.Rule{
			validation.Required.Error("El nombre del presupuesto no puede ir vacio."),
		}},
		{"amount", r.Amount, amountRules(
			"La cantidad del presupuesto no puede ir vacia.",
			"El presupuesto debe ser mayor a 0.",
		)},
	}
}

type expenseInputRequest struct {
	Name   string   `json:"name"`
	Amount *float64 `json:"amount"`
}

func (r expenseInputRequest) fields() []fieldRules {
	return []fieldRules{
		{"name", r.Name, []validation.Rule{
			validation.Required.Error("El nombre del gasto no puede ir vacio."),
		}},
		{"amount", r.Amount, amountRules(
			"La cantidad del gasto no puede ir vacia.",
			"El gasto debe ser mayor a 0.",
		)},
	}
}

// amountRules reproduces the notEmpty/isNumeric/greater-than-zero validator
// triple: a missing amount fails all three, a non-positive one only the last.
func amountRules(emptyMsg, positiveMsg string) []validation.Rule {
	return []validation.Rule{
		validation.By(func(value any) error {
			if amount, ok := value.(*float64); !ok || amount == nil {
				return errors.New(emptyMsg)
			}
			return nil
		}),
		validation.By(func(value any) error {
			if amount, ok := value.(*float64); !ok || amount == nil {
				return errors.New("Cantidad no válida.")
			}
			return nil
		}),
		validation.By(func(value any) error {
			amount, ok := value.(*float64)
			if !ok || amount == nil || *amount <= 0 {
				return errors.New(positiveMsg)
			}
			return nil
		}),
	}
}
