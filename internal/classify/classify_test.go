package classify_test

import (
	"testing"

	"mediafixer/internal/classify"
	"mediafixer/internal/config"
	"mediafixer/internal/media"
)

var policy = config.Policy{
	Container:          "Matroska",
	ContainerExtension: "mkv",
	VideoCodec:         "AV1",
	MaxWidth:           1280,
	MaxHeight:          720,
}

func probeResult(formatName, codecName string, height int) media.Result {
	return media.Result{
		Streams: []media.Stream{
			{Index: 0, CodecName: codecName, CodecType: "video", Height: height},
			{Index: 1, CodecName: "aac", CodecType: "audio"},
		},
		Format: media.Format{FormatName: formatName, NBStreams: 2},
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		probe media.Result
		want  classify.Result
	}{
		{
			name:  "conforming file skips",
			probe: probeResult("matroska,webm", "av1", 720),
			want:  classify.Result{Kind: classify.Skip},
		},
		{
			name:  "all three dimensions fail",
			probe: probeResult("mov,mp4,m4a,3gp,3g2,mj2", "h264", 1080),
			want:  classify.Result{Kind: classify.NeedsWork, Remux: true, Reencode: true, Resize: true},
		},
		{
			name:  "container only",
			probe: probeResult("avi", "av1", 720),
			want:  classify.Result{Kind: classify.NeedsWork, Remux: true},
		},
		{
			name:  "codec only",
			probe: probeResult("matroska,webm", "hevc", 720),
			want:  classify.Result{Kind: classify.NeedsWork, Reencode: true},
		},
		{
			name:  "height only",
			probe: probeResult("matroska,webm", "av1", 2160),
			want:  classify.Result{Kind: classify.NeedsWork, Resize: true},
		},
		{
			name:  "exactly max height does not resize",
			probe: probeResult("matroska,webm", "av1", 720),
			want:  classify.Result{Kind: classify.Skip},
		},
		{
			name:  "one pixel over max height resizes",
			probe: probeResult("matroska,webm", "av1", 721),
			want:  classify.Result{Kind: classify.NeedsWork, Resize: true},
		},
		{
			name:  "codec and resize",
			probe: probeResult("matroska,webm", "mpeg2video", 1080),
			want:  classify.Result{Kind: classify.NeedsWork, Reencode: true, Resize: true},
		},
		{
			name: "no video track is invalid",
			probe: media.Result{
				Streams: []media.Stream{{Index: 0, CodecName: "flac", CodecType: "audio"}},
				Format:  media.Format{FormatName: "matroska,webm", NBStreams: 1},
			},
			want: classify.Result{Kind: classify.Invalid},
		},
		{
			name: "no container is invalid",
			probe: media.Result{
				Streams: []media.Stream{{Index: 0, CodecName: "av1", CodecType: "video", Height: 720}},
			},
			want: classify.Result{Kind: classify.Invalid},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classify.Classify(tc.probe, policy)
			if got != tc.want {
				t.Fatalf("Classify() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestWorkItemCarriesFlags(t *testing.T) {
	result := classify.Classify(probeResult("avi", "h264", 1080), policy)
	item := result.WorkItem("/media/old.avi")
	if item.Path != "/media/old.avi" || !item.Remux || !item.Reencode || !item.Resize {
		t.Fatalf("unexpected work item: %+v", item)
	}
	if !item.NeedsWork() {
		t.Fatal("expected item to need work")
	}
}
