package user

import (
	"net/http"

	"employee/backend/foundation/web"
	"employee/backend/internal/service/account"
)

type Controller struct {
	account Account
}

func NewController(account Account) *Controller {
	return &Controller{account}
}

func (uc Controller) Signup(c *web.Context) error {
	var request account.SignupRequest

	if err := c.BindFunc(&request, "Username", "Email", "Password"); err != nil {
		return c.RespondError(err)
	}

	id, err := uc.account.Signup(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"message": "User registered successfully",
		"user_id": id,
	}, http.StatusCreated)
}

func (uc Controller) Login(c *web.Context) error {
	var request account.LoginRequest

	if err := c.BindFunc(&request, "Email", "Password"); err != nil {
		return c.RespondError(err)
	}

	token, err := uc.account.Login(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"message":   "Login successful",
		"jwt_token": token,
	}, http.StatusOK)
}
