// Package dispatch maps the presentation layer's abstract
// (verb, resource, id, payload) requests onto concrete service operations.
// The resource set is closed: an unrecognized resource or verb fails with a
// named error and never silently no-ops.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"gentrack/internal/database"
	"gentrack/internal/model"
	"gentrack/internal/repository"
	"gentrack/internal/service"
	"gentrack/pkg/response"
)

// Verbs accepted across the boundary
const (
	VerbGet    = "GET"
	VerbPost   = "POST"
	VerbPut    = "PUT"
	VerbDelete = "DELETE"
)

// Resource names accepted across the boundary
const (
	ResourceSession    = "session"
	ResourceFirstLogin = "first-login"
	ResourceAccounts   = "accounts"
	ResourceGenerators = "generators"
	ResourceServices   = "services"
	ResourceParts      = "parts"
	ResourceAudit      = "audit"
	ResourceSystem     = "system"
)

// Request is the boundary contract with the presentation layer.
type Request struct {
	Verb     string         `json:"verb"`
	Resource string         `json:"resource"`
	ID       string         `json:"id,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// Dispatcher routes boundary requests to the service layer.
type Dispatcher struct {
	store      *database.Store
	auth       service.AuthService
	accounts   service.AccountService
	generators service.GeneratorService
	services   service.MaintenanceService
	parts      service.PartService
	audit      service.AuditService
	bootstrap  service.BootstrapService
}

// New wires a Dispatcher over the service layer.
func New(
	store *database.Store,
	auth service.AuthService,
	accounts service.AccountService,
	generators service.GeneratorService,
	services service.MaintenanceService,
	parts service.PartService,
	audit service.AuditService,
	bootstrap service.BootstrapService,
) *Dispatcher {
	return &Dispatcher{
		store:      store,
		auth:       auth,
		accounts:   accounts,
		generators: generators,
		services:   services,
		parts:      parts,
		audit:      audit,
		bootstrap:  bootstrap,
	}
}

// decodePayload re-marshals the loose payload map into a typed request.
func decodePayload(payload map[string]any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// Dispatch runs the request and wraps the outcome in the boundary envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) response.Response {
	data, err := d.Do(ctx, req)
	if err != nil {
		return response.Error(err.Error())
	}
	return response.Success(data)
}

// Do runs the request and returns the raw result. Zero-affected updates and
// deletes come back as a false success flag, not an error.
func (d *Dispatcher) Do(ctx context.Context, req Request) (any, error) {
	switch req.Resource {
	case ResourceSession:
		return d.session(ctx, req)
	case ResourceFirstLogin:
		return d.firstLogin(ctx, req)
	case ResourceAccounts:
		return d.account(ctx, req)
	case ResourceGenerators:
		return d.generator(ctx, req)
	case ResourceServices:
		return d.service(ctx, req)
	case ResourceParts:
		return d.part(ctx, req)
	case ResourceAudit:
		return d.auditLog(ctx, req)
	case ResourceSystem:
		return d.system(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %q", repository.ErrUnknownResource, req.Resource)
	}
}

func unknownOperation(verb, resource string) error {
	return fmt.Errorf("%w: %s %s", repository.ErrUnknownOperation, verb, resource)
}

func (d *Dispatcher) session(ctx context.Context, req Request) (any, error) {
	switch req.Verb {
	case VerbGet:
		return d.auth.CurrentAccount(), nil
	case VerbPost:
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := decodePayload(req.Payload, &creds); err != nil {
			return nil, err
		}
		return d.auth.Login(ctx, creds.Email, creds.Password)
	case VerbDelete:
		d.auth.Logout()
		return true, nil
	default:
		return nil, unknownOperation(req.Verb, req.Resource)
	}
}

func (d *Dispatcher) firstLogin(ctx context.Context, req Request) (any, error) {
	if req.Verb != VerbPost {
		return nil, unknownOperation(req.Verb, req.Resource)
	}
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodePayload(req.Payload, &body); err != nil {
		return nil, err
	}
	return d.auth.CompleteFirstLogin(ctx, req.ID, body.Name, body.Email, body.Password)
}

func (d *Dispatcher) account(ctx context.Context, req Request) (any, error) {
	switch req.Verb {
	case VerbGet:
		if req.ID != "" {
			return d.accounts.GetAccount(ctx, req.ID)
		}
		return d.accounts.ListAccounts(ctx)
	case VerbPost:
		var body service.RegisterRequest
		if err := decodePayload(req.Payload, &body); err != nil {
			return nil, err
		}
		return d.auth.Register(ctx, body)
	case VerbPut:
		var body service.UpdateAccountRequest
		if err := decodePayload(req.Payload, &body); err != nil {
			return nil, err
		}
		res, found, err := d.accounts.UpdateAccount(ctx, req.ID, body)
		if err != nil {
			return nil, err
		}
		if !found {
			return map[string]any{"updated": false}, nil
		}
		return res, nil
	case VerbDelete:
		deleted, err := d.accounts.DeleteAccount(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"deleted": deleted}, nil
	default:
		return nil, unknownOperation(req.Verb, req.Resource)
	}
}

func (d *Dispatcher) generator(ctx context.Context, req Request) (any, error) {
	switch req.Verb {
	case VerbGet:
		if req.ID != "" {
			return d.generators.GetGenerator(ctx, req.ID)
		}
		return d.generators.ListGenerators(ctx)
	case VerbPost:
		var body service.CreateGeneratorRequest
		if err := decodePayload(req.Payload, &body); err != nil {
			return nil, err
		}
		return d.generators.CreateGenerator(ctx, body)
	case VerbPut:
		var body service.UpdateGeneratorRequest
		if err := decodePayload(req.Payload, &body); err != nil {
			return nil, err
		}
		res, found, err := d.generators.UpdateGenerator(ctx, req.ID, body)
		if err != nil {
			return nil, err
		}
		if !found {
			return map[string]any{"updated": false}, nil
		}
		return res, nil
	case VerbDelete:
		deleted, err := d.generators.DeleteGenerator(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"deleted": deleted}, nil
	default:
		return nil, unknownOperation(req.Verb, req.Resource)
	}
}

func (d *Dispatcher) service(ctx context.Context, req Request) (any, error) {
	switch req.Verb {
	case VerbGet:
		if req.ID != "" {
			return d.services.GetService(ctx, req.ID)
		}
		if gen, ok := req.Payload["generator_id"].(string); ok && gen != "" {
			return d.services.ListServicesByGenerator(ctx, gen)
		}
		return d.services.ListServices(ctx)
	case VerbPost:
		var body service.CreateServiceRequest
		if err := decodePayload(req.Payload, &body); err != nil {
			return nil, err
		}
		return d.services.CreateService(ctx, body)
	case VerbPut:
		if complete, ok := req.Payload["complete"].(bool); ok && complete {
			res, found, err := d.services.CompleteService(ctx, req.ID)
			if err != nil {
				return nil, err
			}
			if !found {
				return map[string]any{"updated": false}, nil
			}
			return res, nil
		}
		var body service.UpdateServiceRequest
		if err := decodePayload(req.Payload, &body); err != nil {
			return nil, err
		}
		res, found, err := d.services.UpdateService(ctx, req.ID, body)
		if err != nil {
			return nil, err
		}
		if !found {
			return map[string]any{"updated": false}, nil
		}
		return res, nil
	case VerbDelete:
		deleted, err := d.services.DeleteService(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"deleted": deleted}, nil
	default:
		return nil, unknownOperation(req.Verb, req.Resource)
	}
}

func (d *Dispatcher) part(ctx context.Context, req Request) (any, error) {
	switch req.Verb {
	case VerbGet:
		if req.ID != "" {
			return d.parts.GetPart(ctx, req.ID)
		}
		return d.parts.ListParts(ctx)
	case VerbPost:
		var body service.CreatePartRequest
		if err := decodePayload(req.Payload, &body); err != nil {
			return nil, err
		}
		return d.parts.CreatePart(ctx, body)
	case VerbPut:
		if delta, ok := req.Payload["quantity_delta"].(float64); ok {
			res, found, err := d.parts.AdjustStock(ctx, req.ID, int(delta))
			if err != nil {
				return nil, err
			}
			if !found {
				return map[string]any{"updated": false}, nil
			}
			return res, nil
		}
		var body service.UpdatePartRequest
		if err := decodePayload(req.Payload, &body); err != nil {
			return nil, err
		}
		res, found, err := d.parts.UpdatePart(ctx, req.ID, body)
		if err != nil {
			return nil, err
		}
		if !found {
			return map[string]any{"updated": false}, nil
		}
		return res, nil
	case VerbDelete:
		deleted, err := d.parts.DeletePart(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"deleted": deleted}, nil
	default:
		return nil, unknownOperation(req.Verb, req.Resource)
	}
}

func (d *Dispatcher) auditLog(ctx context.Context, req Request) (any, error) {
	if req.Verb != VerbGet {
		return nil, unknownOperation(req.Verb, req.Resource)
	}
	limit := 0
	if l, ok := req.Payload["limit"].(float64); ok {
		limit = int(l)
	}
	if req.ID != "" {
		return d.audit.ListByUser(ctx, req.ID, limit)
	}
	return d.audit.List(ctx, limit)
}

// system handles the destructive factory reset: close the store, delete the
// backing file, rebuild the schema and re-run bootstrap from empty.
func (d *Dispatcher) system(ctx context.Context, req Request) (any, error) {
	if req.Verb != VerbPost || req.ID != "reset" {
		return nil, unknownOperation(req.Verb, req.Resource)
	}

	userID := currentUserID(d.auth)
	d.auth.Logout()

	if err := d.store.Reset(); err != nil {
		return nil, err
	}
	if err := d.bootstrap.EnsureDefaultAccounts(ctx); err != nil {
		return nil, err
	}
	if err := d.bootstrap.SeedIfEmpty(ctx); err != nil {
		return nil, err
	}

	d.audit.Record(userID, model.ActionFactoryReset, "store reset to factory state")
	return true, nil
}

func currentUserID(auth service.AuthService) *string {
	if account := auth.CurrentAccount(); account != nil {
		return &account.ID
	}
	return nil
}
