package webservice

import (
	"net/http"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/scribe/internal/pkg/auth"
	"github.com/airenas/scribe/internal/pkg/persistence"
	"github.com/airenas/scribe/internal/pkg/utils"
	"github.com/labstack/echo/v4"
)

type transcriberInput struct {
	AudioID      string `json:"audioId,omitempty"`
	Text         string `json:"text"`
	IsUnsuitable bool   `json:"isUnsuitable"`
	Comments     string `json:"comments,omitempty"`
}

type controllerInput struct {
	IsCorrect    bool   `json:"isCorrect"`
	IsUnsuitable bool   `json:"isUnsuitable"`
	Comments     string `json:"comments,omitempty"`
}

type transcriberVerificationResult struct {
	IsUnsuitable       bool      `json:"isUnsuitable"`
	Date               time.Time `json:"verificationDate"`
	Comments           string    `json:"comments,omitempty"`
	TextAtVerification string    `json:"textAtVerification"`
}

type controllerVerificationResult struct {
	IsCorrect     bool      `json:"isCorrect"`
	IsUnsuitable  bool      `json:"isUnsuitable"`
	Date          time.Time `json:"verificationDate"`
	Comments      string    `json:"comments,omitempty"`
	TextAtControl string    `json:"textAtControl"`
}

type transcriptionResult struct {
	ID           string                         `json:"id"`
	Audio        string                         `json:"audio"`
	ExistingText string                         `json:"existingText"`
	VerifiedBy   string                         `json:"verifiedBy"`
	Transcriber  *transcriberVerificationResult `json:"transcriptionVerification"`
	ControlledBy string                         `json:"controlledBy,omitempty"`
	Controller   *controllerVerificationResult  `json:"controllerVerification,omitempty"`
}

func mapTranscription(t *persistence.Transcription) *transcriptionResult {
	res := &transcriptionResult{ID: t.ID, Audio: t.AudioID, ExistingText: t.ExistingText,
		VerifiedBy: t.VerifiedBy, ControlledBy: utils.FromSQLStr(t.ControlledBy),
		Transcriber: &transcriberVerificationResult{IsUnsuitable: t.Transcriber.IsUnsuitable,
			Date: t.Transcriber.Date, Comments: utils.FromSQLStr(t.Transcriber.Comments),
			TextAtVerification: t.Transcriber.Text}}
	if t.Controller != nil {
		res.Controller = &controllerVerificationResult{IsCorrect: t.Controller.IsCorrect,
			IsUnsuitable: t.Controller.IsUnsuitable, Date: t.Controller.Date,
			Comments: utils.FromSQLStr(t.Controller.Comments), TextAtControl: t.Controller.Text}
	}
	return res
}

func doSubmitTranscriber(c echo.Context, data *Data, audioID string, input *transcriberInput) error {
	defer goapp.Estimate("submitTranscriber method")()
	caller, err := auth.IdentityFor(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
	}
	if audioID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no audio ID")
	}
	if input.Text == "" && !input.IsUnsuitable {
		return echo.NewHTTPError(http.StatusBadRequest, "no text")
	}
	res, err := data.Workflow.SubmitTranscriber(c.Request().Context(), audioID, caller,
		input.Text, input.IsUnsuitable, input.Comments)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapTranscription(res))
}

func doSubmitController(c echo.Context, data *Data, audioID string, input *controllerInput) error {
	defer goapp.Estimate("submitController method")()
	caller, err := auth.IdentityFor(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
	}
	if audioID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no audio ID")
	}
	res, err := data.Workflow.SubmitController(c.Request().Context(), audioID, caller,
		input.IsCorrect, input.IsUnsuitable, input.Comments)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapTranscription(res))
}

func submitTranscriber(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		var input transcriberInput
		if err := c.Bind(&input); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "wrong input")
		}
		return doSubmitTranscriber(c, data, c.Param("id"), &input)
	}
}

func submitTranscriberByAudio(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		var input transcriberInput
		if err := c.Bind(&input); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "wrong input")
		}
		return doSubmitTranscriber(c, data, c.Param("audioId"), &input)
	}
}

func createTranscription(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		var input transcriberInput
		if err := c.Bind(&input); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "wrong input")
		}
		return doSubmitTranscriber(c, data, input.AudioID, &input)
	}
}

func submitController(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		var input controllerInput
		if err := c.Bind(&input); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "wrong input")
		}
		return doSubmitController(c, data, c.Param("id"), &input)
	}
}

func submitControllerByAudio(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		var input controllerInput
		if err := c.Bind(&input); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "wrong input")
		}
		return doSubmitController(c, data, c.Param("audioId"), &input)
	}
}

func getTranscription(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("getTranscription method")()
		caller, err := auth.IdentityFor(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
		}
		detail, err := data.Workflow.GetDetail(c.Request().Context(), c.Param("audioId"), caller)
		if err != nil {
			return err
		}
		if detail.Transcription == nil {
			return echo.NewHTTPError(http.StatusNotFound, "Transcription not found")
		}
		return c.JSON(http.StatusOK, mapTranscription(detail.Transcription))
	}
}

type verificationStatsResult struct {
	Transcribers []*userTotalsResult `json:"transcribers"`
	Controllers  []*userTotalsResult `json:"controllers"`
}

type userTotalsResult struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Total      int64   `json:"total"`
	Correct    int64   `json:"correct"`
	Incorrect  int64   `json:"incorrect"`
	Unsuitable int64   `json:"unsuitable"`
	AudioHours float64 `json:"audioHours,omitempty"`
	DoneToday  int64   `json:"doneToday,omitempty"`
}

func mapTotals(ut *persistence.UserTotals) *userTotalsResult {
	return &userTotalsResult{ID: ut.UserID, Username: ut.Username, Total: ut.Total,
		Correct: ut.Correct, Incorrect: ut.Incorrect, Unsuitable: ut.Unsuitable,
		AudioHours: ut.AudioHours, DoneToday: ut.DoneToday}
}

func mapTotalsList(uts []*persistence.UserTotals) []*userTotalsResult {
	res := make([]*userTotalsResult, 0, len(uts))
	for _, ut := range uts {
		res = append(res, mapTotals(ut))
	}
	return res
}

func verificationStats(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("verificationStats method")()
		ctx := c.Request().Context()
		trs, err := data.Reports.TranscriberStats(ctx)
		if err != nil {
			return err
		}
		ctrs, err := data.Reports.ControllerStats(ctx)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, verificationStatsResult{Transcribers: mapTotalsList(trs),
			Controllers: mapTotalsList(ctrs)})
	}
}

func history(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		res, err := data.Reports.History(c.Request().Context(), c.Param("audioId"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}
}

func userStats(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		caller, err := auth.IdentityFor(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
		}
		res, err := data.Reports.SelfStats(c.Request().Context(), caller.ID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, mapTotals(res))
	}
}

func controllerStats(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		caller, err := auth.IdentityFor(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
		}
		res, err := data.Reports.ControllerSelfStats(c.Request().Context(), caller.ID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, mapTotals(res))
	}
}
