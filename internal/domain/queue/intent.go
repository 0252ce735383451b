package queue

// IntentKind names what an external notification service should tell a client.
type IntentKind string

const (
	IntentPositionChanged  IntentKind = "position_changed"
	IntentPriorityChanged  IntentKind = "priority_changed"
	IntentConvertedToQueue IntentKind = "converted_to_queue"
	IntentCancelled        IntentKind = "cancelled"
)

type IntentPayload struct {
	OldPosition          int    `json:"old_position,omitempty"`
	NewPosition          int    `json:"new_position,omitempty"`
	OldPriority          Tier   `json:"old_priority,omitempty"`
	NewPriority          Tier   `json:"new_priority,omitempty"`
	EstimatedWaitMinutes int    `json:"estimated_wait_minutes"`
	Reason               string `json:"reason,omitempty"`
}

// Intent is a notification to send. The engine never delivers it.
type Intent struct {
	ID                string        `json:"id"`
	RecipientClientID uint          `json:"recipient_client_id"`
	Kind              IntentKind    `json:"kind"`
	AppointmentID     uint          `json:"appointment_id"`
	BarberID          uint          `json:"barber_id"`
	Date              string        `json:"date"`
	Payload           IntentPayload `json:"payload"`
}

// BuildIntents turns a batch's net position changes plus any explicit intents
// into the final list, stamping current wait estimates.
func (p *Partition) BuildIntents(changes []PositionChange, extra []Intent) []Intent {
	out := make([]Intent, 0, len(changes)+len(extra))
	for _, ch := range changes {
		out = append(out, Intent{
			RecipientClientID: ch.ClientID,
			Kind:              IntentPositionChanged,
			AppointmentID:     ch.AppointmentID,
			Payload: IntentPayload{
				OldPosition: ch.From,
				NewPosition: ch.To,
			},
		})
	}
	out = append(out, extra...)

	for i := range out {
		out[i].BarberID = p.Key.BarberID
		out[i].Date = p.Key.Date
		if a, ok := p.byID[out[i].AppointmentID]; ok {
			if out[i].RecipientClientID == 0 {
				out[i].RecipientClientID = a.ClientID
			}
			out[i].Payload.EstimatedWaitMinutes = a.EstimatedWaitMinutes
		}
	}
	return out
}
