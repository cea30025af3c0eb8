package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/oggyb/chuanglan-sms/internal/request"
	"github.com/oggyb/chuanglan-sms/internal/response"
	"github.com/oggyb/chuanglan-sms/internal/scheduler"
	"github.com/oggyb/chuanglan-sms/internal/service"
	"github.com/oggyb/chuanglan-sms/internal/sms"
)

const dayLayout = "2006-01-02"

// MessageHandler wires HTTP endpoints to the message service
// and the quota watcher.
type MessageHandler struct {
	msgSvc service.MessageService
	schSvc scheduler.SchedulerService
}

// NewMessageHandler constructs a new MessageHandler with its dependencies.
func NewMessageHandler(msgSvc service.MessageService, schSvc scheduler.SchedulerService) *MessageHandler {
	return &MessageHandler{
		msgSvc: msgSvc,
		schSvc: schSvc,
	}
}

// SendMessage godoc
// @Summary     Send a message
// @Description Sends content to every recipient through the SMS gateway, 200 recipients per gateway request.
// @Tags        messages
// @Accept      json
// @Produce     json
// @Param       request body request.SendMessageRequest true "Message and recipients"
// @Success     200 {object} response.DispatchResponse
// @Failure     400 {object} map[string]string
// @Failure     502 {object} map[string]string
// @Failure     503 {object} map[string]string
// @Router      /messages [post]
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req request.SendMessageRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sendType := sms.SendType(req.SendType)
	switch sendType {
	case "":
		sendType = sms.SendTypePlain
	case sms.SendTypePlain, sms.SendTypeLong:
	default:
		response.RespondError(w, http.StatusBadRequest, "sendType must be 'plain' or 'long'")
		return
	}

	d, err := h.msgSvc.Send(r.Context(), service.SendCommand{
		Recipients: req.Recipients,
		Content:    req.Content,
		Options: sms.SendOptions{
			SendTime:  req.SendTime,
			SendType:  sendType,
			ExpiresAt: req.ExpiresAt,
		},
	})
	if err != nil {
		respondSMSError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, response.FromDomainDispatch(d))
}

// GetQuota godoc
// @Summary     Remaining quota
// @Description Returns how many messages the gateway account can still send.
// @Tags        quota
// @Produce     json
// @Success     200 {object} response.QuotaResponse
// @Failure     502 {object} map[string]string
// @Failure     503 {object} map[string]string
// @Router      /quota [get]
func (h *MessageHandler) GetQuota(w http.ResponseWriter, r *http.Request) {
	q, err := h.msgSvc.Quota(r.Context())
	if err != nil {
		respondSMSError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, response.FromDomainQuota(q))
}

// GetSentCount godoc
// @Summary     Sent count
// @Description Returns how many recipients were messaged on the given day.
// @Tags        messages
// @Produce     json
// @Param       day query string false "Day as YYYY-MM-DD, defaults to today"
// @Success     200 {object} response.SentCountResponse
// @Failure     400 {object} map[string]string
// @Failure     500 {object} map[string]string
// @Router      /messages/sent/count [get]
func (h *MessageHandler) GetSentCount(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if v := r.URL.Query().Get("day"); v != "" {
		parsed, err := time.ParseInLocation(dayLayout, v, time.Local)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "day must be formatted as YYYY-MM-DD")
			return
		}
		day = parsed
	}

	n, err := h.msgSvc.SentCount(r.Context(), day)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, response.SentCountPayload{
		Day:   day.Format(dayLayout),
		Count: n,
	})
}

// StartStopScheduler godoc
// @Summary     Control quota watcher
// @Description Starts or stops the periodic quota refresh based on the given action.
// @Tags        scheduler
// @Accept      json
// @Produce     json
// @Param       request body request.SchedulerRequest true "Scheduler action (start|stop)"
// @Success     200 {object} response.SchedulerControlResponse
// @Failure     400 {object} map[string]string
// @Router      /scheduler [post]
func (h *MessageHandler) StartStopScheduler(w http.ResponseWriter, r *http.Request) {
	var req request.SchedulerRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var (
		err error
		msg string
	)
	switch req.Action {
	case "start":
		err, msg = h.schSvc.Start(), "scheduler started"
	case "stop":
		err, msg = h.schSvc.Stop(), "scheduler stopped"
	default:
		response.RespondError(w, http.StatusBadRequest, "action must be 'start' or 'stop'")
		return
	}
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, response.SchedulerControlPayload{Message: msg})
}

// respondSMSError maps gateway client failures onto HTTP statuses.
func respondSMSError(w http.ResponseWriter, err error) {
	var smsErr *sms.Error
	if !errors.As(err, &smsErr) {
		log.Printf("[Handler] Unexpected error: %v", err)
		response.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	switch smsErr.Kind {
	case sms.KindValidation:
		response.RespondErrorReason(w, http.StatusBadRequest, smsErr.Message, "validation")
	case sms.KindGateway:
		response.RespondErrorReason(w, http.StatusBadGateway, smsErr.Message, "gateway:"+smsErr.Code)
	default:
		response.RespondErrorReason(w, http.StatusServiceUnavailable, smsErr.Message, "transport")
	}
}
