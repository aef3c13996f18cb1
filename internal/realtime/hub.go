package realtime

import (
	"encoding/json"
	"log"

	"github.com/devhire/backend/internal/domain"
	"github.com/google/uuid"
)

// Event types pushed to connected clients.
const (
	EventJobOfferCreated = "job_offer_created"
	EventJobOfferUpdated = "job_offer_updated"
	EventJobOfferDeleted = "job_offer_deleted"
)

type Event struct {
	Type       string           `json:"type"`
	JobOffer   *domain.JobOffer `json:"jobOffer,omitempty"`
	JobOfferID string           `json:"jobOfferId,omitempty"`
}

// Hub fans job-offer events out to every connected client. All state
// is owned by the Run goroutine; handlers talk to it over channels.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client: drop it rather than block the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// PublishOfferCreated broadcasts a new offer to all clients.
func (h *Hub) PublishOfferCreated(offer *domain.JobOffer) {
	h.publish(Event{Type: EventJobOfferCreated, JobOffer: offer.Listing()})
}

// PublishOfferUpdated broadcasts an edited offer.
func (h *Hub) PublishOfferUpdated(offer *domain.JobOffer) {
	h.publish(Event{Type: EventJobOfferUpdated, JobOffer: offer.Listing()})
}

// PublishOfferDeleted broadcasts the id of a removed offer.
func (h *Hub) PublishOfferDeleted(id uuid.UUID) {
	h.publish(Event{Type: EventJobOfferDeleted, JobOfferID: id.String()})
}

func (h *Hub) publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR [realtime.publish] failed to marshal event: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Printf("ERROR [realtime.publish] broadcast buffer full, dropping %s", event.Type)
	}
}
