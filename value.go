package agrilingo

import "context"

// ResolveValue translates every string inside v without waiting. Maps,
// slices and nested combinations of them are copied; map keys and
// non-string leaves are left alone.
func (s *Service) ResolveValue(v any, lang string) any {
	out, _ := s.walk(v, func(text string) (string, error) {
		return s.Resolve(text, lang), nil
	})
	return out
}

// TranslateValue is ResolveValue that waits for each queued translation.
// It stops at the first context error and returns what was translated so far.
func (s *Service) TranslateValue(ctx context.Context, v any, lang string) (any, error) {
	return s.walk(v, func(text string) (string, error) {
		return s.Await(ctx, text, lang)
	})
}

func (s *Service) walk(v any, fn func(string) (string, error)) (any, error) {
	switch val := v.(type) {
	case string:
		return fn(val)
	case []string:
		out := make([]string, len(val))
		for i, item := range val {
			t, err := fn(item)
			out[i] = t
			if err != nil {
				copy(out[i+1:], val[i+1:])
				return out, err
			}
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		copy(out, val)
		for i, item := range val {
			t, err := s.walk(item, fn)
			out[i] = t
			if err != nil {
				return out, err
			}
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = item
		}
		for k, item := range val {
			t, err := s.walk(item, fn)
			out[k] = t
			if err != nil {
				return out, err
			}
		}
		return out, nil
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, item := range val {
			out[k] = item
		}
		for k, item := range val {
			t, err := fn(item)
			out[k] = t
			if err != nil {
				return out, err
			}
		}
		return out, nil
	default:
		return v, nil
	}
}
