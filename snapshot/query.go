package snapshot

import "github.com/signadot/deltoid/eval"

// Select returns the indices of the snapshots in s matched by q.  view
// turns a state into the generic tree seen by the query as "state"; a nil
// view passes the state as is.
func Select[T any](s []FullSnapshot[T], q *eval.Query, view func(T) any) ([]int, error) {
	var res []int
	for i := range s {
		env := eval.Env{Index: i, Timestamp: s[i].Timestamp, Origin: s[i].Origin}
		if view != nil {
			env.State = view(s[i].State)
		} else {
			env.State = s[i].State
		}
		ok, err := q.Match(env)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, i)
		}
	}
	return res, nil
}
