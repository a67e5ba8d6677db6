package emailsvc

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
)

// ConsoleService prints emails to the console in DEV mode.
type ConsoleService struct {
	subjPrefix string

	mu       sync.Mutex
	SentMsgs []*core.EmailMessage // for tests
}

var _ core.EmailService = (*ConsoleService)(nil)

func NewConsoleService() *ConsoleService {
	return &ConsoleService{subjPrefix: "[" + core.Conf.AppName + "] "}
}

func (svc *ConsoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if !(msg.HasRecipients() && msg.HasContent()) {
			continue
		}
		svc.send(msg)
	}
}

func (svc *ConsoleService) send(msg *core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	tos := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		tos = append(tos, to.String())
	}
	fmt.Fprintf(os.Stdout,
		"\n------------------------------------\nTo: %s\nSubject: %s%s\n\n%s\n------------------------------------\n",
		strings.Join(tos, ", "), svc.subjPrefix, msg.Subject, msg.TextContent,
	)
	svc.SentMsgs = append(svc.SentMsgs, msg)
}
