package notifier

import (
	"fmt"

	"github.com/smirnovd/tg-couple-bot/pkg/milestone"
)

const dateLayout = "02.01.2006"

// BuildEventMessage renders the notification text for a due event.
func BuildEventMessage(event milestone.Event) string {
	switch event.Kind {
	case milestone.EventAnniversaryWarning7d:
		return fmt.Sprintf(
			"⏳ Your anniversary is 7 days away — %d year(s) together! 💑\n\n"+
				"Anniversary date: %s\n"+
				"A good time to plan something special for each other 💕",
			event.Key, event.Date.Format(dateLayout))
	case milestone.EventAnniversaryWarning1d:
		return fmt.Sprintf(
			"⏰ Tomorrow is your anniversary — %d year(s) together! 💑\n\n"+
				"Anniversary date: %s\n"+
				"If the surprise is not ready yet, now is the moment 🌸",
			event.Key, event.Date.Format(dateLayout))
	case milestone.EventAnniversaryDay:
		return fmt.Sprintf(
			"🎉 Today is your little celebration!\n\n"+
				"You have been together for %d year(s) 💖\n"+
				"A good reason for a longer hug than usual 🥰",
			event.Key)
	case milestone.EventBeautifulDay:
		return fmt.Sprintf(
			"✨ A beautiful number: you are together for %d days today! 💫\n\n"+
				"May this day be as special as your \"together\" 💕",
			event.Key)
	default:
		return ""
	}
}
