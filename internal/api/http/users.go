package http

import (
	"net/http"

	"github.com/aussiebroadwan/soapbox/internal/api/service"
	"github.com/aussiebroadwan/soapbox/pkg/apisdk"
	"github.com/aussiebroadwan/soapbox/pkg/authz"
	"github.com/aussiebroadwan/soapbox/pkg/httpx"
)

// UsersHandler serves registration, account management and profiles.
type UsersHandler struct {
	Users *service.UserService
}

// HandleRegister handles POST /register
//
//	@Summary		Register
//	@Description	Creates a regular account. Usernames are 3-30 characters, passwords at least 6.
//	@Tags			Users
//	@Accept			json
//	@Produce		json,xml,yaml,plain
//	@Param			request	body		apisdk.RegisterRequest	true	"New account"
//	@Success		201		{object}	apisdk.RegisterResponse
//	@Failure		400		{object}	apisdk.ErrorResponse	"validation failed"
//	@Failure		409		{object}	apisdk.ErrorResponse	"username or email taken"
//	@Router			/register [post]
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req apisdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		httpx.WriteError(w, r, httpx.BadRequest("Username, email and password required"))
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, r, &httpx.Error{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}

	u, err := h.Users.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, userMessages))
		return
	}

	httpx.Write(w, r, http.StatusCreated, apisdk.RegisterResponse{
		Message: "User registered successfully",
		User:    presentUser(u),
		Links: httpx.Links{
			"self":  httpx.Get(userHref(u.ID)),
			"login": httpx.Post("/login"),
		},
	})
}

// HandleList handles GET /users
//
//	@Summary		List users
//	@Tags			Users
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Success		200	{object}	apisdk.UserListResponse
//	@Failure		401	{object}	apisdk.ErrorResponse
//	@Router			/users [get]
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, userMessages))
		return
	}

	out := apisdk.UserListResponse{
		Count: len(users),
		Users: make([]apisdk.UserResponse, 0, len(users)),
		Links: httpx.Links{
			"self":   httpx.Get("/users"),
			"create": httpx.Post("/users"),
		},
	}
	for _, u := range users {
		out.Users = append(out.Users, presentUser(u))
	}
	httpx.Write(w, r, http.StatusOK, out)
}

// HandleCreate handles POST /users
//
//	@Summary		Create a user
//	@Description	Admin only. Without a password the account gets a random one.
//	@Tags			Users
//	@Accept			json
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Param			request	body		apisdk.CreateUserRequest	true	"New account"
//	@Success		201		{object}	apisdk.CreateUserResponse
//	@Failure		400		{object}	apisdk.ErrorResponse
//	@Failure		403		{object}	apisdk.ErrorResponse
//	@Failure		409		{object}	apisdk.ErrorResponse
//	@Router			/users [post]
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req apisdk.CreateUserRequest
	if err := decode(w, r, &req, ""); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	u, err := h.Users.CreateByAdmin(r.Context(), httpx.IdentityFrom(r.Context()), service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     authz.Role(req.Role),
	})
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, userMessages))
		return
	}

	httpx.Write(w, r, http.StatusCreated, apisdk.CreateUserResponse{
		Message: "User Created",
		UserID:  u.ID,
		Links: httpx.Links{
			"self": httpx.Get(userHref(u.ID)),
			"all":  httpx.Get("/users"),
		},
	})
}

// HandleUpdate handles PUT /users/{id}
//
//	@Summary		Update a user
//	@Description	Users may update their own account, admins any account.
//	@Tags			Users
//	@Accept			json
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Param			id		path		int							true	"User id"
//	@Param			request	body		apisdk.UpdateUserRequest	true	"New username and email"
//	@Success		200		{object}	apisdk.UserUpdateResponse
//	@Failure		400		{object}	apisdk.ErrorResponse
//	@Failure		403		{object}	apisdk.ErrorResponse
//	@Failure		404		{object}	apisdk.ErrorResponse
//	@Router			/users/{id} [put]
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var req apisdk.UpdateUserRequest
	if err := decode(w, r, &req, "Username and email are required"); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	u, err := h.Users.Update(r.Context(), httpx.IdentityFrom(r.Context()), id, req.Username, req.Email)
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, userMessages))
		return
	}

	httpx.Write(w, r, http.StatusOK, apisdk.UserUpdateResponse{
		Message: "User Updated.",
		User:    presentUser(u),
		Links:   httpx.Links{"self": httpx.Get(userHref(u.ID))},
	})
}

// HandleDelete handles DELETE /users/{id}
//
//	@Summary		Delete a user
//	@Description	Admin only. Removes the user's posts, comments and likes too.
//	@Tags			Users
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Param			id	path		int	true	"User id"
//	@Success		200	{object}	apisdk.MessageResponse
//	@Failure		403	{object}	apisdk.ErrorResponse
//	@Failure		404	{object}	apisdk.ErrorResponse
//	@Failure		409	{object}	apisdk.ErrorResponse	"last admin"
//	@Router			/users/{id} [delete]
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.Users.Delete(r.Context(), httpx.IdentityFrom(r.Context()), id); err != nil {
		httpx.WriteError(w, r, serviceError(err, userMessages))
		return
	}

	httpx.Write(w, r, http.StatusOK, apisdk.MessageResponse{
		Message: "User Deleted.",
		Links:   httpx.Links{"all": httpx.Get("/users")},
	})
}

// HandleProfile handles GET /profile
//
//	@Summary		Own profile
//	@Tags			Profile
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Success		200	{object}	apisdk.UserResponse
//	@Failure		403	{object}	apisdk.ErrorResponse	"missing profile:read"
//	@Router			/profile [get]
func (h *UsersHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Profile(r.Context(), httpx.IdentityFrom(r.Context()))
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, profileMessages))
		return
	}

	out := presentUser(u)
	out.Links = httpx.Links{
		"self":   httpx.Get("/profile"),
		"update": httpx.Put("/profile"),
	}
	httpx.Write(w, r, http.StatusOK, out)
}

// HandleUpdateProfile handles PUT /profile
//
//	@Summary		Update own profile
//	@Description	Both fields are optional; omitted ones keep their value.
//	@Tags			Profile
//	@Accept			json
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Param			request	body		apisdk.UpdateProfileRequest	true	"Changes"
//	@Success		200		{object}	apisdk.UserUpdateResponse
//	@Failure		400		{object}	apisdk.ErrorResponse
//	@Failure		403		{object}	apisdk.ErrorResponse	"missing profile:write"
//	@Router			/profile [put]
func (h *UsersHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req apisdk.UpdateProfileRequest
	if err := decode(w, r, &req, ""); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	u, err := h.Users.UpdateProfile(r.Context(), httpx.IdentityFrom(r.Context()), req.Username, req.ProfilePic)
	if err != nil {
		httpx.WriteError(w, r, serviceError(err, profileMessages))
		return
	}

	httpx.Write(w, r, http.StatusOK, apisdk.UserUpdateResponse{
		Message: "Profile updated",
		User:    presentUser(u),
		Links:   httpx.Links{"self": httpx.Get("/profile")},
	})
}
