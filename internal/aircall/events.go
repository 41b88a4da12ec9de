package aircall

// WebhookEvents lists every event name Aircall can deliver to a webhook
// subscription, spanning call, contact, user, number, and message lifecycles.
var WebhookEvents = []string{
	"call.created",
	"call.ringing_on_agent",
	"call.agent_declined",
	"call.answered",
	"call.transferred",
	"call.unsuccessful_transfer",
	"call.ended",
	"call.voicemail_left",
	"call.assigned",
	"call.archived",
	"call.tagged",
	"call.untagged",
	"call.commented",
	"contact.created",
	"contact.updated",
	"contact.deleted",
	"user.created",
	"user.opened",
	"user.closed",
	"user.deleted",
	"user.connected",
	"user.disconnected",
	"number.created",
	"number.opened",
	"number.closed",
	"number.deleted",
	"message.created",
}

// IsKnownEvent reports whether name is a recognized webhook event.
func IsKnownEvent(name string) bool {
	for _, event := range WebhookEvents {
		if event == name {
			return true
		}
	}
	return false
}
