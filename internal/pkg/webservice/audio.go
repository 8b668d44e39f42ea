package webservice

import (
	"net/http"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/scribe/internal/pkg/auth"
	"github.com/airenas/scribe/internal/pkg/persistence"
	"github.com/airenas/scribe/internal/pkg/status"
	"github.com/airenas/scribe/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type createAudioInput struct {
	Filename string  `json:"filename"`
	Duration float64 `json:"duration,omitempty"`
}

type audioResult struct {
	ID         string  `json:"id"`
	Filename   string  `json:"filename"`
	Duration   float64 `json:"duration,omitempty"`
	Status     string  `json:"status"`
	AssignedTo string  `json:"assignedTo,omitempty"`
}

type detailResult struct {
	audioResult
	Transcription *transcriptionResult `json:"transcription,omitempty"`
}

func mapAudio(a *persistence.Audio) *audioResult {
	return &audioResult{ID: a.ID, Filename: a.Filename,
		Duration: utils.FromSQLFloat64OrZero(a.Duration), Status: a.Status,
		AssignedTo: utils.FromSQLStr(a.AssignedTo)}
}

func createAudio(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("createAudio method")()
		ctx := c.Request().Context()

		var input createAudioInput
		if err := c.Bind(&input); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "wrong input")
		}
		if input.Filename == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "no filename")
		}
		if input.Duration < 0 {
			return utils.NewErrField("duration", "negative")
		}

		audio := &persistence.Audio{ID: uuid.NewString(), Filename: input.Filename,
			Duration: utils.ToSQLFloat64(input.Duration), Status: status.NotStarted.String(),
			Created: time.Now()}
		if err := data.Audio.InsertAudio(ctx, audio); err != nil {
			return err
		}
		goapp.Log.Info().Str("ID", audio.ID).Str("file", audio.Filename).Msg("audio created")
		return c.JSON(http.StatusOK, mapAudio(audio))
	}
}

func listAudio(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		audio, err := data.Audio.ListAudio(c.Request().Context())
		if err != nil {
			return err
		}
		res := make([]*audioResult, 0, len(audio))
		for _, a := range audio {
			res = append(res, mapAudio(a))
		}
		return c.JSON(http.StatusOK, res)
	}
}

func getAudio(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("getAudio method")()
		caller, err := auth.IdentityFor(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
		}
		detail, err := data.Workflow.GetDetail(c.Request().Context(), c.Param("id"), caller)
		if err != nil {
			return err
		}
		res := detailResult{audioResult: *mapAudio(detail.Audio)}
		if detail.Transcription != nil {
			res.Transcription = mapTranscription(detail.Transcription)
		}
		return c.JSON(http.StatusOK, res)
	}
}

func assignAudio(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("assignAudio method")()
		caller, err := auth.IdentityFor(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
		}
		audio, err := data.Workflow.Assign(c.Request().Context(), c.Param("id"), caller)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, mapAudio(audio))
	}
}

func statusCounts(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		res, err := data.Reports.StatusCounts(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}
}

func workReport(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("workReport method")()
		res, err := data.Reports.WorkReport(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}
}
