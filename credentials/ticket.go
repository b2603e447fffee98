package credentials

import (
	"github.com/jcmturner/krb5view/messages"
	"github.com/jcmturner/krb5view/types"
)

// GetTicket decodes cred's opaque ticket bytes. Configuration entries
// never carry a real ticket and always report ok=false with a nil
// error; a genuine DER decode failure on a non-configuration entry is
// returned as an error for that entry only (messages.DecodeTicket tags it
// CCFormat). GetTicket is separate from cache iteration, so the failure
// does not abort the caller's scan of the rest of the cache.
func GetTicket(cred types.Credential) (t messages.Ticket, ok bool, err error) {
	if cred.IsConfigEntry() {
		return messages.Ticket{}, false, nil
	}
	t, err = messages.DecodeTicket(cred.Ticket)
	if err != nil {
		return messages.Ticket{}, false, err
	}
	return t, true, nil
}
