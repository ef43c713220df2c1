package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ZaguanLabs/agrilingo"
	"github.com/gin-gonic/gin"
)

type languageInfo struct {
	agrilingo.Language
	Dir       string `json:"dir"`
	SpeechTag string `json:"speech_tag"`
}

func describe(l agrilingo.Language) languageInfo {
	return languageInfo{
		Language:  l,
		Dir:       agrilingo.GetDirection(l.Code),
		SpeechTag: agrilingo.SpeechTag(l.Code),
	}
}

func (s *Server) languages(c *gin.Context) {
	out := make([]languageInfo, len(agrilingo.Languages))
	for i, l := range agrilingo.Languages {
		out[i] = describe(l)
	}
	c.JSON(http.StatusOK, out)
}

type languageResponse struct {
	languageInfo
	Version uint64 `json:"version"`
}

func (s *Server) currentLanguageResponse() languageResponse {
	l, _ := agrilingo.LookupLanguage(s.svc.Language())
	return languageResponse{languageInfo: describe(l), Version: s.svc.Version()}
}

func (s *Server) currentLanguage(c *gin.Context) {
	c.JSON(http.StatusOK, s.currentLanguageResponse())
}

type changeLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

func (s *Server) changeLanguage(c *gin.Context) {
	var req changeLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "language is required")
		return
	}
	if !s.svc.ChangeLanguage(c.Request.Context(), req.Language) {
		abortWithError(c, http.StatusBadRequest, "unsupported language "+strconv.Quote(req.Language))
		return
	}
	c.JSON(http.StatusOK, s.currentLanguageResponse())
}

func (s *Server) detectLanguage(c *gin.Context) {
	code := agrilingo.MatchLanguage(c.GetHeader("Accept-Language"))
	l, _ := agrilingo.LookupLanguage(code)
	c.JSON(http.StatusOK, describe(l))
}

type translateRequest struct {
	Text string `json:"text" form:"text"`
	Lang string `json:"lang" form:"lang"`
	Wait bool   `json:"wait" form:"wait"`
}

type translateResponse struct {
	Text        string `json:"text"`
	Lang        string `json:"lang"`
	Translation string `json:"translation"`
	Translated  bool   `json:"translated"`
	Pending     bool   `json:"pending"`
	Version     uint64 `json:"version"`
}

func (s *Server) translateQuery(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	s.translate(c, req)
}

func (s *Server) translateBody(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.translate(c, req)
}

func (s *Server) translate(c *gin.Context, req translateRequest) {
	if req.Text == "" {
		abortWithError(c, http.StatusBadRequest, "text is required")
		return
	}
	if req.Lang != "" && !agrilingo.IsSupported(req.Lang) {
		abortWithError(c, http.StatusBadRequest, "unsupported language "+strconv.Quote(req.Lang))
		return
	}

	p := s.svc.Request(req.Text, req.Lang)
	if req.Wait {
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.waitTimeout)
		defer cancel()
		// A timeout still answers with the source text and pending=true
		if _, err := p.Wait(ctx); err != nil {
			s.log.Debug().Err(err).Str("key", p.Key).Dur("waited", s.waitTimeout).
				Str("request_id", c.GetString(requestIDKey)).Msg("translation still pending")
		}
	}

	pending := true
	select {
	case <-p.Done():
		pending = false
	default:
	}

	c.JSON(http.StatusOK, translateResponse{
		Text:        req.Text,
		Lang:        p.Lang,
		Translation: p.Result(),
		Translated:  p.Translated(),
		Pending:     pending,
		Version:     s.svc.Version(),
	})
}

type objectRequest struct {
	Lang    string `json:"lang"`
	Content any    `json:"content"`
	Wait    bool   `json:"wait"`
}

func (s *Server) translateObject(c *gin.Context) {
	var req objectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Lang != "" && !agrilingo.IsSupported(req.Lang) {
		abortWithError(c, http.StatusBadRequest, "unsupported language "+strconv.Quote(req.Lang))
		return
	}

	var content any
	if req.Wait {
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.waitTimeout)
		defer cancel()
		var err error
		content, err = s.svc.TranslateValue(ctx, req.Content, req.Lang)
		if err != nil {
			abortWithError(c, http.StatusGatewayTimeout, "translation did not finish in time")
			return
		}
	} else {
		content = s.svc.ResolveValue(req.Content, req.Lang)
	}

	c.JSON(http.StatusOK, gin.H{"lang": s.effectiveLang(req.Lang), "content": content, "version": s.svc.Version()})
}

type htmlRequest struct {
	Lang string `json:"lang"`
	HTML string `json:"html" binding:"required"`
}

func (s *Server) translateHTML(c *gin.Context) {
	var req htmlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "html is required")
		return
	}
	lang := s.effectiveLang(req.Lang)
	if !agrilingo.IsSupported(lang) {
		abortWithError(c, http.StatusBadRequest, "unsupported language "+strconv.Quote(req.Lang))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.waitTimeout)
	defer cancel()

	result, err := s.html.Translate(ctx, s.svc, req.HTML, lang)
	if err != nil {
		var perr *agrilingo.ProcessorError
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			abortWithError(c, http.StatusGatewayTimeout, "translation did not finish in time")
		case errors.As(err, &perr) && perr.Cause == nil:
			abortWithError(c, http.StatusBadRequest, perr.Error())
		default:
			_ = c.Error(err)
			abortWithError(c, http.StatusInternalServerError, "html translation failed")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

type primeRequest struct {
	Text        string `json:"text" binding:"required"`
	Lang        string `json:"lang" binding:"required"`
	Translation string `json:"translation" binding:"required"`
}

func (s *Server) prime(c *gin.Context) {
	var req primeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "text, lang and translation are required")
		return
	}
	if err := s.svc.Prime(req.Text, req.Lang, req.Translation); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Stats())
}

// events streams the version counter as server-sent events. The current
// version is sent first.
func (s *Server) events(c *gin.Context) {
	updates, cancel := s.svc.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("version", s.svc.Version())
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case v, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("version", v)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func (s *Server) effectiveLang(lang string) string {
	if lang == "" {
		return s.svc.Language()
	}
	return lang
}
