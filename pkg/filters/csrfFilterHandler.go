package filters

import (
	"fmt"
	"net/http"

	"github.com/jbchangelogs/gateway/pkg/common"
	"github.com/jbchangelogs/gateway/pkg/crypt"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-playground/validator.v9"
)

type methodsSet struct {
	methodsMap map[string]bool
}

func newMethodsSet(methods []string) *methodsSet {
	methodsMap := make(map[string]bool)
	for _, method := range methods {
		methodsMap[method] = true
	}
	return &methodsSet{methodsMap: methodsMap}
}

func (set *methodsSet) Contains(method string) bool {
	return set.methodsMap[method]
}

// CsrfFilter protects cookie-authenticated write routes. Safe methods get a
// fresh header token sealed over the caller's session token, unsafe methods
// must present one that opens back to the same token. Anonymous callers pass
// through untouched, they carry no cookie identity to forge.
type CsrfFilter struct {
	next           *common.RequestHandler
	Name           string           `validate:"required"`
	HeaderName     string           `validate:"required"`
	SafeMethodsSet *methodsSet      `validate:"required"`
	Encryptor      *crypt.Encryptor `validate:"required"`
}

var validate = validator.New()

func NewCsrfFilter(name string, headerName string, safeMethods []string, encryptorPrivateKey string) *CsrfFilter {
	filter := &CsrfFilter{
		Name:           name,
		HeaderName:     headerName,
		SafeMethodsSet: newMethodsSet(safeMethods),
		Encryptor:      crypt.NewEncryptor(encryptorPrivateKey),
	}
	err := validate.Struct(filter)
	if err != nil {
		panic(err.Error())
	}
	return filter
}

func (filter *CsrfFilter) SetNext(nextHandler common.RequestHandler) {
	filter.next = &nextHandler
}

func (filter *CsrfFilter) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	const stage = "Csrf filter error. Reason: %v"
	log = log.WithField("filterName", filter.Name)

	requestContext := common.ResolveRequestContext(request)
	if requestContext == nil {
		log.Errorf(stage, "request context not found, token filter required before csrf filter")
		writer.WriteHeader(500)
		_, _ = fmt.Fprintf(writer, stage, "request context not found")
		return
	}

	if !requestContext.Authenticated() {
		(*filter.next).Handle(log, writer, request)
		return
	}

	if !filter.methodIsSafe(request.Method) {
		csrfHeader, err := filter.resolveCsrfHeader(request.Header)
		if err != nil {
			writer.WriteHeader(403)
			_, _ = fmt.Fprint(writer, err.Error())
			return
		}
		if err := filter.checkCsrfHeader(csrfHeader, requestContext); err != nil {
			writer.WriteHeader(403)
			_, _ = fmt.Fprint(writer, err.Error())
			return
		}
	} else {
		newCsrfToken, err := filter.generateNewCsrfToken(requestContext)
		if err != nil {
			log.Errorf(stage, err.Error())
			writer.WriteHeader(500)
			_, _ = fmt.Fprintf(writer, stage, err.Error())
			return
		}
		writer.Header().Add(filter.HeaderName, newCsrfToken)
	}
	(*filter.next).Handle(log, writer, request)
}

func (filter *CsrfFilter) methodIsSafe(method string) bool {
	return filter.SafeMethodsSet.Contains(method)
}

func (filter *CsrfFilter) checkCsrfHeader(csrfHeader string, requestContext *common.RequestContext) error {
	value, err := filter.Encryptor.Decrypt(csrfHeader)
	if err != nil {
		return fmt.Errorf("decrypt CSRF header error. Reason: %v", err.Error())
	}
	if value != string(requestContext.Token) {
		return fmt.Errorf("invalid CSRF token")
	}
	return nil
}

func (filter *CsrfFilter) generateNewCsrfToken(requestContext *common.RequestContext) (string, error) {
	token, err := filter.Encryptor.Encrypt(string(requestContext.Token))
	if err != nil {
		return "", fmt.Errorf("generation new CSRF token error. Reason: %v", err.Error())
	}
	return token, nil
}

func (filter *CsrfFilter) resolveCsrfHeader(headers http.Header) (string, error) {
	header := headers.Get(filter.HeaderName)
	if header == "" {
		return "", fmt.Errorf("resolving CSRF header error. CSRF header: %v is empty", filter.HeaderName)
	}
	return header, nil
}
