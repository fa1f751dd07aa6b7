package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

var (
	runsHeader = []string{
		"run_id", "created", "source", "contracts", "seed", "rate", "volatility", "workers", "repeat",
		"min_ns", "mean_ns", "median_ns", "p95_ns", "max_ns", "mean_call", "mean_put", "parity_error",
	}
	quotesHeader = []string{"run_id", "index", "spot", "strike", "maturity", "call", "put"}
)

type CSVJournal struct {
	runs   *csv.Writer
	quotes *csv.Writer
	rf, qf *os.File
}

// NewCSV opens the runs and quotes files for appending. A header row is
// written only to files that are empty.
func NewCSV(runsPath, quotesPath string) (*CSVJournal, error) {
	rf, err := openAppend(runsPath)
	if err != nil {
		return nil, err
	}
	qf, err := openAppend(quotesPath)
	if err != nil {
		rf.Close()
		return nil, err
	}

	j := &CSVJournal{csv.NewWriter(rf), csv.NewWriter(qf), rf, qf}

	if err := j.header(rf, j.runs, runsHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	if err := j.header(qf, j.quotes, quotesHeader); err != nil {
		j.closeFiles()
		return nil, err
	}

	return j, nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func (j *CSVJournal) header(fh *os.File, w *csv.Writer, row []string) error {
	st, err := fh.Stat()
	if err != nil {
		return err
	}
	if st.Size() > 0 {
		return nil
	}
	return j.write(w, row)
}

func (j *CSVJournal) RecordRun(r RunRecord) error {
	return j.write(j.runs, []string{
		r.RunID,
		r.Created.UTC().Format(time.RFC3339Nano),
		r.Source,
		strconv.Itoa(r.Contracts),
		strconv.FormatUint(r.Seed, 10),
		f(r.Rate),
		f(r.Volatility),
		strconv.Itoa(r.Workers),
		strconv.Itoa(r.Repeat),
		d(r.Min),
		d(r.Mean),
		d(r.Median),
		d(r.P95),
		d(r.Max),
		f(r.MeanCall),
		f(r.MeanPut),
		f(r.ParityError),
	})
}

func (j *CSVJournal) RecordQuotes(qs []QuoteRecord) error {
	for _, q := range qs {
		err := j.quotes.Write([]string{
			q.RunID,
			strconv.Itoa(q.Index),
			f(q.Spot),
			f(q.Strike),
			f(q.Maturity),
			f(q.Call),
			f(q.Put),
		})
		if err != nil {
			return err
		}
	}
	j.quotes.Flush()
	return j.quotes.Error()
}

func (j *CSVJournal) Close() error {
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}
	j.quotes.Flush()
	if err := j.quotes.Error(); err != nil {
		return err
	}
	return j.closeFiles()
}

func (j *CSVJournal) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) closeFiles() error {
	rerr := j.rf.Close()
	qerr := j.qf.Close()
	if rerr != nil {
		return rerr
	}
	return qerr
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

func d(x time.Duration) string {
	return strconv.FormatInt(int64(x), 10)
}
