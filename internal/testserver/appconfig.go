package testserver

import (
	"github.com/google/uuid"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

func copyAppConfig(cfg *bridge.AppConfig) *bridge.AppConfig {
	out := *cfg
	out.SchemaReferences = append([]bridge.SchemaReference(nil), cfg.SchemaReferences...)
	out.SurveyReferences = append([]bridge.SurveyReference(nil), cfg.SurveyReferences...)
	if cfg.Criteria != nil {
		criteria := *cfg.Criteria
		criteria.AllOfGroups = append([]string(nil), cfg.Criteria.AllOfGroups...)
		if cfg.Criteria.NoneOfGroups != nil {
			criteria.NoneOfGroups = append([]string(nil), cfg.Criteria.NoneOfGroups...)
		}
		out.Criteria = &criteria
	}
	return &out
}

func (s *store) createAppConfig(cfg *bridge.AppConfig) bridge.GuidVersionHolder {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyAppConfig(cfg)
	stored.GUID = uuid.NewString()
	stored.Version = 1
	s.appConfigs = append(s.appConfigs, stored)
	return bridge.GuidVersionHolder{GUID: stored.GUID, Version: stored.Version}
}

func (s *store) updateAppConfig(guid string, cfg *bridge.AppConfig) (bridge.GuidVersionHolder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.appConfigs {
		if existing.GUID == guid {
			stored := copyAppConfig(cfg)
			stored.GUID = guid
			stored.Version = existing.Version + 1
			s.appConfigs[i] = stored
			return bridge.GuidVersionHolder{GUID: guid, Version: stored.Version}, nil
		}
	}
	return bridge.GuidVersionHolder{}, bridge.NewError(bridge.KindNotFound, "app config not found")
}

func (s *store) getAppConfig(guid string) (*bridge.AppConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, cfg := range s.appConfigs {
		if cfg.GUID == guid {
			return copyAppConfig(cfg), nil
		}
	}
	return nil, bridge.NewError(bridge.KindNotFound, "app config not found")
}

func (s *store) listAppConfigs() bridge.AppConfigList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]bridge.AppConfig, 0, len(s.appConfigs))
	for _, cfg := range s.appConfigs {
		items = append(items, *copyAppConfig(cfg))
	}
	return bridge.AppConfigList{Items: items}
}

func (s *store) deleteAppConfig(guid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cfg := range s.appConfigs {
		if cfg.GUID == guid {
			s.appConfigs = append(s.appConfigs[:i], s.appConfigs[i+1:]...)
			return nil
		}
	}
	return bridge.NewError(bridge.KindNotFound, "app config not found")
}

// selectAppConfig resolves a participant's effective app config. Exactly
// one matching config is returned; several matches is a constraint
// violation, none is not-found. The service never picks a winner among
// ambiguous matches.
func (s *store) selectAppConfig(acct *account) (*bridge.AppConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*bridge.AppConfig
	for _, cfg := range s.appConfigs {
		if cfg.Criteria.Matches(acct.DataGroups) {
			matches = append(matches, cfg)
		}
	}
	switch len(matches) {
	case 1:
		return copyAppConfig(matches[0]), nil
	case 0:
		return nil, bridge.NewError(bridge.KindNotFound, "no app config matches the participant's data groups")
	default:
		return nil, bridge.NewError(bridge.KindConstraintViolation, "multiple app configs match the participant's data groups")
	}
}
