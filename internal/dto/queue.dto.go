package dto

import (
	"time"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	ucQueue "github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
)

type QueueEntryDTO struct {
	ID                   uint       `json:"id"`
	ClientID             uint       `json:"client_id"`
	Kind                 string     `json:"kind"`
	Status               string     `json:"status"`
	Priority             string     `json:"priority"`
	Position             int        `json:"position"`
	DurationMinutes      int        `json:"duration_minutes"`
	EstimatedWaitMinutes int        `json:"estimated_wait_minutes"`
	EstimatedStart       *time.Time `json:"estimated_start,omitempty"`
	StartTime            *time.Time `json:"start_time,omitempty"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
}

type PositionChangeDTO struct {
	AppointmentID uint `json:"appointment_id"`
	ClientID      uint `json:"client_id"`
	From          int  `json:"from"`
	To            int  `json:"to"`
}

type MutationResponse struct {
	AppointmentID        uint                `json:"appointment_id,omitempty"`
	Position             int                 `json:"position"`
	EstimatedWaitMinutes int                 `json:"estimated_wait_minutes"`
	Version              int64               `json:"version"`
	Changes              []PositionChangeDTO `json:"changes"`
	Intents              []domain.Intent     `json:"intents"`
	Queue                []QueueEntryDTO     `json:"queue"`
}

type QueueListResponse struct {
	BarberID uint            `json:"barber_id"`
	Date     string          `json:"date"`
	Version  int64           `json:"version"`
	Serving  []QueueEntryDTO `json:"serving"`
	Waiting  []QueueEntryDTO `json:"waiting"`
}

func FromAppointment(a domain.Appointment) QueueEntryDTO {
	out := QueueEntryDTO{
		ID:                   a.ID,
		ClientID:             a.ClientID,
		Kind:                 string(a.Kind()),
		Status:               string(a.Status),
		Priority:             string(a.Priority),
		Position:             a.Position(),
		DurationMinutes:      a.EffectiveDuration(),
		EstimatedWaitMinutes: a.EstimatedWaitMinutes,
		StartedAt:            a.StartedAt,
	}
	if start, ok := a.StartTime(); ok {
		out.StartTime = &start
	}
	return out
}

func FromResult(res *ucQueue.Result) MutationResponse {
	out := MutationResponse{
		AppointmentID:        res.AppointmentID,
		Position:             res.Position,
		EstimatedWaitMinutes: res.EstimatedWaitMinutes,
		Version:              res.Version,
		Changes:              make([]PositionChangeDTO, 0, len(res.Changes)),
		Intents:              res.Intents,
		Queue:                make([]QueueEntryDTO, 0, len(res.Waiting)),
	}
	for _, ch := range res.Changes {
		out.Changes = append(out.Changes, PositionChangeDTO{
			AppointmentID: ch.AppointmentID,
			ClientID:      ch.ClientID,
			From:          ch.From,
			To:            ch.To,
		})
	}
	for _, a := range res.Waiting {
		out.Queue = append(out.Queue, FromAppointment(a))
	}
	return out
}

func FromQueueView(v *ucQueue.QueueView) QueueListResponse {
	out := QueueListResponse{
		BarberID: v.Key.BarberID,
		Date:     v.Key.Date,
		Version:  v.Version,
		Serving:  make([]QueueEntryDTO, 0, len(v.Serving)),
		Waiting:  make([]QueueEntryDTO, 0, len(v.Waiting)),
	}
	for _, a := range v.Serving {
		out.Serving = append(out.Serving, FromAppointment(a))
	}
	for _, w := range v.Waiting {
		entry := FromAppointment(w.Appointment)
		// estimativa recalculada na leitura, não a gravada
		entry.EstimatedWaitMinutes = w.Projection.WaitMinutes
		start := w.Projection.Start
		entry.EstimatedStart = &start
		out.Waiting = append(out.Waiting, entry)
	}
	return out
}
