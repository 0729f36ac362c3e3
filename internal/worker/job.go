package worker

// Job はワーカーが一度だけ実行する作業単位
// 引数も戻り値も持たず、投入したゴルーチンとは別のワーカー上で実行される
type Job interface {
	Run()
}

// JobFunc は関数を Job として扱うためのアダプタ
type JobFunc func()

// Run は関数を呼び出す
func (f JobFunc) Run() {
	f()
}

// isNilJob は nil インターフェースと nil の JobFunc の両方を検出する
func isNilJob(job Job) bool {
	if job == nil {
		return true
	}
	f, ok := job.(JobFunc)
	return ok && f == nil
}
