package encryption

// Operation names the direction of a file operation.
type Operation string

const (
	// OpEncrypt is reported for Encrypt.
	OpEncrypt Operation = "encrypt"
	// OpDecrypt is reported for Decrypt and DecryptFile.
	OpDecrypt Operation = "decrypt"
)

// Event describes a finished file operation. It never carries key material.
type Event struct {
	Op        Operation
	Input     string
	Output    string
	Algorithm string
	// Size is the number of bytes produced, IV included for encryption.
	Size int64
}

// Observer is notified once per file operation, after the output has been committed or the
// operation has failed.
type Observer interface {
	Succeeded(event Event)
	Failed(event Event, err error)
}

type nopObserver struct{}

func (nopObserver) Succeeded(Event) {}
func (nopObserver) Failed(Event, error) {}
