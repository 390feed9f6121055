package service

import "strings"

// Action is what an inbound customer message asks the pharmacy to do.
type Action string

const (
	ActionNone           Action = ""
	ActionRequestDetails Action = "request_details"
	ActionCreateBooking  Action = "create_booking"
	ActionCancelBooking  Action = "cancel_booking"
	ActionStatusCheck    Action = "status_check"
)

// IncomingResult is the outcome of classifying an inbound message.
type IncomingResult struct {
	Processed bool   `json:"processed"`
	Response  string `json:"response,omitempty"`
	Action    Action `json:"action,omitempty"`
}

const clarificationResponse = "Non ho compreso la sua richiesta. Può riprovare specificando se desidera prenotare un medicinale, verificare lo stato di una prenotazione, o annullare una prenotazione?"

type intentRule struct {
	match  func(body string) bool
	result IncomingResult
}

// intentRules are checked in order; the first match wins.
var intentRules = []intentRule{
	{
		match: containsAny("prenota", "ordina", "prenotare"),
		result: IncomingResult{
			Processed: true,
			Response:  "Grazie per la sua richiesta di prenotazione. Può specificare quali medicinali desidera prenotare?",
			Action:    ActionRequestDetails,
		},
	},
	{
		match: containsAny("paracetamolo", "antibiotico", "amoxicillina", "ibuprofene"),
		result: IncomingResult{
			Processed: true,
			Response:  "Abbiamo ricevuto la sua richiesta. La contatteremo a breve per confermare la disponibilità e la prenotazione.",
			Action:    ActionCreateBooking,
		},
	},
	{
		match: containsAny("annulla", "cancella"),
		result: IncomingResult{
			Processed: true,
			Response:  "La sua richiesta di cancellazione è stata ricevuta. La prenotazione sarà annullata.",
			Action:    ActionCancelBooking,
		},
	},
	{
		match: containsAny("stato", "aggiornamento"),
		result: IncomingResult{
			Processed: true,
			Response:  "Stiamo verificando lo stato della sua prenotazione e la aggiorneremo a breve.",
			Action:    ActionStatusCheck,
		},
	},
}

func containsAny(keywords ...string) func(string) bool {
	return func(body string) bool {
		for _, k := range keywords {
			if strings.Contains(body, k) {
				return true
			}
		}
		return false
	}
}

// ClassifyIncoming matches body case-insensitively against the intent rules.
func ClassifyIncoming(body string) IncomingResult {
	lower := strings.ToLower(body)
	for _, rule := range intentRules {
		if rule.match(lower) {
			return rule.result
		}
	}
	return IncomingResult{Processed: false, Response: clarificationResponse}
}
