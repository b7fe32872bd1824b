package pg

import (
	"context"
	"database/sql"

	"nccportal.org/internal/portal"
)

type reportStore struct {
	db *sql.DB
}

func (s *reportStore) UserCounts(ctx context.Context, anoID string) (portal.UserCounts, error) {
	var counts portal.UserCounts
	err := s.db.QueryRowContext(ctx, `
		select count(*)::integer,
		       coalesce(sum(case when is_approved = false then 1 else 0 end), 0)::integer
		from users
		where ano_id = $1
	`, anoID).Scan(&counts.TotalCadets, &counts.PendingCadets)
	return counts, err
}

func (s *reportStore) EventsCount(ctx context.Context, anoID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		select count(*)::integer from fallin where ano_id = $1
	`, anoID).Scan(&count)
	return count, err
}

func (s *reportStore) AttendanceSummary(ctx context.Context, anoID string) (portal.AttendanceSummary, error) {
	var summary portal.AttendanceSummary
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		select avg(pcnt)::numeric(5,2) from (
			select (sum(case when a.status = 'Present' then 1 else 0 end)::numeric / count(*)) * 100 as pcnt
			from attendance a
			join fallin f on f.fallin_id = a.fallin_id
			where f.ano_id = $1
			group by a.fallin_id
		) t
	`, anoID).Scan(&avg)
	if err != nil {
		return summary, err
	}
	if avg.Valid {
		summary.AvgAttendance = avg.Float64
	}
	return summary, nil
}

func (s *reportStore) PlatformSummary(ctx context.Context) (portal.PlatformSummary, error) {
	var sum portal.PlatformSummary
	err := s.db.QueryRowContext(ctx, `
		select
			(select count(*)::integer from users),
			(select count(*)::integer from admins),
			(select count(*)::integer from masters),
			(select count(*)::integer from fallin),
			(select count(*)::integer from events),
			(select count(*)::integer from support_queries)
	`).Scan(&sum.TotalCadets, &sum.TotalAdmins, &sum.TotalMasters, &sum.TotalFallins, &sum.TotalEvents, &sum.TotalQueries)
	return sum, err
}

func (s *reportStore) AttendanceTrends(ctx context.Context) ([]portal.AttendanceTrend, error) {
	rows, err := s.db.QueryContext(ctx, `
		select f.fallin_id, to_char(f.date, 'YYYY-MM-DD'), to_char(f.time, 'HH24:MI'),
		       coalesce(sum(case when a.status = 'Present' then 1 else 0 end), 0)::integer,
		       count(a.regimental_number)::integer,
		       coalesce(round((sum(case when a.status = 'Present' then 1 else 0 end)::numeric
		           / nullif(count(a.regimental_number), 0)) * 100, 2), 0)::float8
		from fallin f
		left join attendance a on a.fallin_id = f.fallin_id
		group by f.fallin_id, f.date, f.time
		order by f.date desc, f.time desc
		limit 5
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []portal.AttendanceTrend
	for rows.Next() {
		var t portal.AttendanceTrend
		if err := rows.Scan(&t.FallinID, &t.Date, &t.Time, &t.PresentCount, &t.TotalCount, &t.Percentage); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
