package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"eventra/internal/auth"
	"eventra/internal/domain/users"
	"eventra/internal/domain/vendors"
	"eventra/internal/mailer"
)

// setSessionCookie writes the session token under the current cookie name.
// Reads accept the legacy name too; writes only ever use the current one.
func (app *application) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "vendor-token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(app.config.auth.session.exp.Seconds()),
	})
}

// clearSessionCookies overwrites every accepted cookie name with an empty,
// already-expired value. There is no server-side revocation list; logout is
// purely client side.
func (app *application) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range app.config.auth.session.cookieNames {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   app.config.env == "production",
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

type RegisterCustomerPayload struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"required,phone"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// registerCustomerHandler godoc
//
//	@Summary		Registers a customer account
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RegisterCustomerPayload	true	"Customer details"
//	@Success		201		{object}	users.User
//	@Failure		400		{object}	error
//	@Router			/auth/register [post]
func (app *application) registerCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterCustomerPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	user := &users.User{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Role:      string(auth.RoleCustomer),
	}
	if err := user.Password.Set(payload.Password); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Users.Create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, users.ErrDuplicateEmail):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

type RegisterVendorPayload struct {
	FirstName    string `json:"first_name" validate:"required,max=50"`
	LastName     string `json:"last_name" validate:"required,max=50"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Phone        string `json:"phone" validate:"required,phone"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	BusinessName string `json:"business_name" validate:"required,min=2,max=120"`
}

type VendorRegistrationResponse struct {
	User   *users.User     `json:"user"`
	Vendor *vendors.Vendor `json:"vendor"`
}

// registerVendorHandler creates the user and the vendor record in one go and
// signs the caller in as that vendor. The vendor starts at registration step
// 1 with a pending verification status.
//
//	@Summary		Registers a vendor account
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RegisterVendorPayload	true	"Vendor details"
//	@Success		201		{object}	VendorRegistrationResponse
//	@Failure		400		{object}	error
//	@Failure		409		{object}	error
//	@Router			/auth/vendor/register [post]
func (app *application) registerVendorHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterVendorPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	user := &users.User{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Role:      string(auth.RoleVendor),
	}
	if err := user.Password.Set(payload.Password); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Users.Create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, users.ErrDuplicateEmail):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	vendor := &vendors.Vendor{
		UserID:       user.ID,
		BusinessName: payload.BusinessName,
	}
	if err := app.store.Vendors.Create(r.Context(), vendor); err != nil {
		switch {
		case errors.Is(err, vendors.ErrDuplicateBusinessName):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	token, err := app.authenticator.GenerateSessionToken(auth.SessionClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     auth.RoleVendor,
		VendorID: &vendor.ID,
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.setSessionCookie(w, token)

	// Welcome mail must not block registration.
	go func() {
		data := map[string]any{
			"Username":     user.FirstName,
			"BusinessName": vendor.BusinessName,
		}
		if _, err := app.mailer.Send(mailer.VendorWelcomeTemplate, user.FirstName, user.Email, data); err != nil {
			app.logger.Warnw("failed to send welcome email", "email", user.Email, "error", err)
		}
	}()

	resp := VendorRegistrationResponse{User: user, Vendor: vendor}
	if err := app.jsonResponse(w, http.StatusCreated, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type SessionResponse struct {
	UserID   string  `json:"user_id"`
	Role     string  `json:"role"`
	VendorID *string `json:"vendor_id,omitempty"`
}

// loginHandler godoc
//
//	@Summary		Logs in and sets the session cookie
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		LoginPayload	true	"Credentials"
//	@Success		200		{object}	SessionResponse
//	@Failure		401		{object}	error
//	@Router			/auth/login [post]
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	user, err := app.store.Users.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}
	if err := user.Password.Compare(payload.Password); err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}

	claims := auth.SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   auth.Role(user.Role),
	}

	// Vendor tokens always carry the vendor binding.
	if claims.Role == auth.RoleVendor {
		vendor, err := app.store.Vendors.GetByUserID(r.Context(), user.ID)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		claims.VendorID = &vendor.ID
	}

	token, err := app.authenticator.GenerateSessionToken(claims)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.setSessionCookie(w, token)

	resp := SessionResponse{
		UserID: user.ID.String(),
		Role:   user.Role,
	}
	if claims.VendorID != nil {
		vendorID := claims.VendorID.String()
		resp.VendorID = &vendorID
	}

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// logoutHandler godoc
//
//	@Summary	Clears the session cookies
//	@Tags		authentication
//	@Success	204
//	@Router		/auth/logout [post]
func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	app.clearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

type MeResponse struct {
	User   *users.User     `json:"user"`
	Vendor *vendors.Vendor `json:"vendor,omitempty"`
}

// meHandler godoc
//
//	@Summary		Returns the authenticated vendor's account
//	@Tags			vendor
//	@Produce		json
//	@Success		200	{object}	MeResponse
//	@Failure		401	{object}	error
//	@Router			/vendor/auth/me [get]
func (app *application) meHandler(w http.ResponseWriter, r *http.Request) {
	claims := getSessionFromContext(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := app.store.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}

	resp := MeResponse{User: user}
	if claims.VendorID != nil {
		vendor, err := app.store.Vendors.GetByID(ctx, *claims.VendorID)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		resp.Vendor = vendor
	}

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
