// Package xcorr provides normalized cross-correlation for waveform matching
// and alignment.
//
// NormXCorr slides a short template over a longer image and reports, for each
// alignment, the Pearson correlation coefficient between the template and the
// overlapped image window. Coefficients lie in [-1, 1]; a value near 1 marks
// the offset at which the image best reproduces the template shape,
// independent of amplitude and DC offset.
//
// Two computation strategies are used, selected by template length:
//
//   - Direct sliding dot products for short templates
//   - FFT-based dot products for longer templates, where the frequency-domain
//     product amortizes the per-lag cost
//
// Window means and energies are obtained from prefix sums in either case, so
// normalization adds only linear work.
//
// # Usage
//
// Locate a template within a longer recording:
//
//	cc, err := xcorr.NormXCorr(template, image)
//	if err != nil {
//	    return err
//	}
//	offset, peak := xcorr.FindPeak(cc)
package xcorr
