package service

import "github.com/aniladanir/pharmacy-messenger-service/internal/domain"

var statusMessages = map[domain.BookingStatus]string{
	domain.StatusPending:   "La sua prenotazione è in fase di elaborazione. La contatteremo a breve.",
	domain.StatusConfirmed: "La sua prenotazione è stata confermata. Può ritirare i farmaci presso la nostra farmacia.",
	domain.StatusReady:     "I suoi medicinali sono pronti per il ritiro presso la nostra farmacia.",
	domain.StatusDelivered: "La sua prenotazione è stata consegnata. Grazie per aver utilizzato il nostro servizio.",
	domain.StatusCancelled: "La sua prenotazione è stata annullata come richiesto.",
}

const defaultStatusMessage = "Lo stato della sua prenotazione è stato aggiornato."

// StatusMessage returns the customer-facing text announcing status.
func StatusMessage(status domain.BookingStatus) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return defaultStatusMessage
}
