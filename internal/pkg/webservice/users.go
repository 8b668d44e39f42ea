package webservice

import (
	"net/http"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/scribe/internal/pkg/auth"
	"github.com/airenas/scribe/internal/pkg/persistence"
	"github.com/airenas/scribe/internal/pkg/roles"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type registerInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResult struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type tokenResult struct {
	Token string      `json:"token"`
	User  *userResult `json:"user,omitempty"`
}

func mapUser(u *persistence.User) *userResult {
	return &userResult{ID: u.ID, Username: u.Username, Role: u.Role}
}

func register(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("register method")()
		ctx := c.Request().Context()

		var input registerInput
		if err := c.Bind(&input); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "wrong input")
		}
		if input.Username == "" || input.Password == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "no username or password")
		}
		role := roles.From(input.Role)
		if role == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "wrong role")
		}

		existing, err := data.Users.LoadUserByUsername(ctx, input.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
		}

		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			return err
		}
		user := &persistence.User{ID: uuid.NewString(), Username: input.Username,
			PasswordHash: hash, Role: role.String(), Created: time.Now()}
		if err := data.Users.InsertUser(ctx, user); err != nil {
			return err
		}
		goapp.Log.Info().Str("user", user.ID).Str("role", user.Role).Msg("registered")

		token, err := data.Tokens.Mint(user.ID, role)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, tokenResult{Token: token})
	}
}

func login(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("login method")()
		ctx := c.Request().Context()

		var input loginInput
		if err := c.Bind(&input); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "wrong input")
		}
		user, err := data.Users.LoadUserByUsername(ctx, input.Username)
		if err != nil {
			return err
		}
		if user == nil || !auth.CheckPassword(user.PasswordHash, input.Password) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid Credentials")
		}

		token, err := data.Tokens.Mint(user.ID, roles.From(user.Role))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, tokenResult{Token: token, User: mapUser(user)})
	}
}

func listUsers(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		users, err := data.Users.ListUsers(c.Request().Context())
		if err != nil {
			return err
		}
		res := make([]*userResult, 0, len(users))
		for _, u := range users {
			res = append(res, mapUser(u))
		}
		return c.JSON(http.StatusOK, res)
	}
}

func getUser(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		user, err := data.Users.LoadUser(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}
		if user == nil {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return c.JSON(http.StatusOK, mapUser(user))
	}
}
